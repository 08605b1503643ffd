// Package cache keeps JSON responses on disk, named by a hash of their key.
package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type cacheKey struct {
	h64  uint64
	h64a uint64
}

func newKey(key string) cacheKey {
	h := fnv.New64a()
	fmt.Fprint(h, key)

	ha := fnv.New64()
	fmt.Fprint(ha, key)

	return cacheKey{
		h64:  h.Sum64(),
		h64a: ha.Sum64(),
	}
}

// Storage is safe for concurrent use. A key being saved is treated as a
// miss by readers until the write finishes.
type Storage struct {
	dir    string
	expire time.Duration

	savingLock sync.RWMutex
	saving     map[cacheKey]struct{}
}

// NewStorage prepares dir. Entries older than expire are misses; zero never
// expires. When the hash of salt differs from the one stored in dir, the
// directory is emptied first.
func NewStorage(dir string, expire time.Duration, salt ...string) (*Storage, error) {
	err := cleanUpWithHash(dir, salt...)
	if err != nil {
		return nil, err
	}

	return &Storage{
		dir:    dir,
		expire: expire,
		saving: make(map[cacheKey]struct{}, 32),
	}, nil
}

func (s *Storage) lock(h cacheKey) bool {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	_, ok := s.saving[h]
	if !ok {
		s.saving[h] = struct{}{}
	}
	return !ok
}

func (s *Storage) unlock(h cacheKey) {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	delete(s.saving, h)
}

func (s *Storage) checkSkip(h cacheKey) bool {
	s.savingLock.RLock()
	defer s.savingLock.RUnlock()

	_, ok := s.saving[h]
	return ok
}

func (s *Storage) path(h cacheKey) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x-%016x.json", h.h64, h.h64a))
}

// Save writes v under key. Failures are logged and reported as false.
func (s *Storage) Save(key string, v interface{}) bool {
	h := newKey(key)
	if !s.lock(h) {
		return false
	}
	defer s.unlock(h)

	fsPath := s.path(h)

	fs, err := os.Create(fsPath)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache create")
		return false
	}
	defer fs.Close()

	err = jsoniter.NewEncoder(fs).Encode(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode")
		fs.Close()
		os.Remove(fsPath)
		return false
	}

	return true
}

// Load decodes the entry for key into v. Missing, expired, unreadable and
// in-flight entries all report false.
func (s *Storage) Load(key string, v interface{}) bool {
	h := newKey(key)
	if s.checkSkip(h) {
		return false
	}

	fsPath := s.path(h)

	if s.expire > 0 {
		fi, err := os.Stat(fsPath)
		if err != nil || time.Since(fi.ModTime()) > s.expire {
			return false
		}
	}

	fs, err := os.Open(fsPath)
	if err != nil {
		return false
	}
	defer fs.Close()

	err = jsoniter.NewDecoder(fs).Decode(v)
	if err != nil {
		log.Warn().Err(errors.WithStack(err)).Str("key", key).Msg("cache decode")
		return false
	}
	return true
}
