package fflogs

import (
	"fmt"
)

func reportFightKey(code string, fightID int) string {
	return fmt.Sprintf("fight_%s_fid_%d", code, fightID)
}

func reportEventsKey(d tmplReportEventsData) string {
	return fmt.Sprintf(
		"events_%s_fid_%d_sid_%d___st_%d_et_%d",
		d.Code, d.FightID, d.SourceID,
		d.StartTime, d.EndTime,
	)
}

func (c *Client) loadCache(key string, v interface{}) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.Load(key, v)
}

func (c *Client) saveCache(key string, v interface{}) {
	if c.cache == nil {
		return
	}
	c.cache.Save(key, v)
}
