package analysispool

import (
	"sync"
	"time"
)

type resultEntry struct {
	data    []byte
	expires time.Time
}

// resultCache keeps encoded results in memory until they expire.
type resultCache struct {
	lock   sync.Mutex
	expire time.Duration
	m      map[uint64]resultEntry
}

func newResultCache(expire time.Duration) *resultCache {
	return &resultCache{
		expire: expire,
		m:      make(map[uint64]resultEntry),
	}
}

func (c *resultCache) Load(h uint64) ([]byte, bool) {
	if c.expire <= 0 {
		return nil, false
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	e, ok := c.m[h]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.m, h)
		return nil, false
	}
	return e.data, true
}

func (c *resultCache) Save(h uint64, data []byte) {
	if c.expire <= 0 {
		return
	}

	now := time.Now()

	c.lock.Lock()
	defer c.lock.Unlock()

	for k, e := range c.m {
		if now.After(e.expires) {
			delete(c.m, k)
		}
	}
	c.m[h] = resultEntry{
		data:    data,
		expires: now.Add(c.expire),
	}
}
