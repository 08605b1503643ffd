package combatant

import (
	"combatlog_check/events"
	"combatlog_check/game"
)

type chargeTrack struct {
	cooldown int64
	max      int
	casts    []int64
}

// available replays the casts strictly before timestamp. Recharging starts
// when a charge is spent at cap and continues while below cap.
func (t *chargeTrack) available(timestamp int64) int {
	charges := t.max
	var rechargeStart int64

	advance := func(now int64) {
		for charges < t.max && rechargeStart+t.cooldown <= now {
			charges++
			rechargeStart += t.cooldown
		}
	}

	for _, c := range t.casts {
		if c >= timestamp {
			break
		}

		advance(c)
		if charges == t.max {
			rechargeStart = c
		}
		if charges > 0 {
			charges--
		}
	}
	advance(timestamp)

	return charges
}

type cooldownHistory map[int]*chargeTrack

func buildCooldowns(sourceID int, list []events.Event, spells *game.SpellTable, talentRank func(int) int) cooldownHistory {
	ch := make(cooldownHistory)

	for i := range list {
		ev := &list[i]
		if ev.Kind != events.KindCast || ev.SourceID != sourceID {
			continue
		}

		t, ok := ch[ev.AbilityID]
		if !ok {
			spell, ok := spells.Get(ev.AbilityID)
			if !ok || spell.Cooldown <= 0 {
				continue
			}

			t = &chargeTrack{
				cooldown: spell.Cooldown,
				max:      spell.Charges,
			}
			if t.max < 1 {
				t.max = 1
			}
			if spell.ChargeTalent != 0 {
				t.max += talentRank(spell.ChargeTalent)
			}
			ch[ev.AbilityID] = t
		}

		t.casts = append(t.casts, ev.Timestamp)
	}

	return ch
}
