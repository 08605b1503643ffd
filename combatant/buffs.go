package combatant

import (
	"combatlog_check/events"
)

const open = int64(-1)

type buffWindow struct {
	start int64
	end   int64 // open while active at the end of the log

	prepull bool
}

type buffTimeline map[int][]buffWindow

// buildBuffs collects buff windows on the target from apply/remove events.
// A removal before any application was up before the fight started; later
// stray removals are dropped so windows stay sorted.
func buildBuffs(targetID int, fightStart int64, list []events.Event) buffTimeline {
	tl := make(buffTimeline)

	for i := range list {
		ev := &list[i]
		if ev.TargetID != targetID {
			continue
		}

		windows := tl[ev.AbilityID]
		switch ev.Kind {
		case events.KindApplyBuff:
			if len(windows) > 0 && windows[len(windows)-1].end == open {
				continue
			}
			tl[ev.AbilityID] = append(windows, buffWindow{start: ev.Timestamp, end: open})

		case events.KindRemoveBuff:
			if len(windows) == 0 {
				tl[ev.AbilityID] = append(windows, buffWindow{start: fightStart, end: ev.Timestamp, prepull: true})
				continue
			}
			if windows[len(windows)-1].end == open {
				windows[len(windows)-1].end = ev.Timestamp
			}
		}
	}

	return tl
}

func (tl buffTimeline) active(buffID int, timestamp int64) bool {
	for _, w := range tl[buffID] {
		if w.start > timestamp {
			return false
		}
		if w.end == open || w.end >= timestamp {
			return true
		}
	}
	return false
}

// prepull returns the buffs already up when the log starts.
func (tl buffTimeline) prepull() map[int]bool {
	r := make(map[int]bool)
	for id, windows := range tl {
		if len(windows) > 0 && windows[0].prepull {
			r[id] = true
		}
	}
	return r
}

// buffState is the set of buffs up after the events replayed so far.
type buffState map[int]bool

func (s buffState) apply(ev *events.Event) {
	switch ev.Kind {
	case events.KindApplyBuff:
		s[ev.AbilityID] = true
	case events.KindRemoveBuff:
		delete(s, ev.AbilityID)
	}
}
