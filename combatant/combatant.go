// Package combatant answers point-in-time questions about the selected
// player: buffs, talents, cooldown charges and target health. Timelines are
// derived once from the fight's events; the live buff state follows the
// replay once Track is called.
package combatant

import (
	"combatlog_check/events"
	"combatlog_check/game"
)

type Combatant struct {
	id      int
	spells  *game.SpellTable
	talents map[int]int

	buffs     buffTimeline
	live      buffState
	cooldowns cooldownHistory
}

type listeners interface {
	AddEventListener(filter events.Filter, handler events.Handler)
}

// New expects list sorted by timestamp.
func New(id int, fightStart int64, list []events.Event, spells *game.SpellTable) *Combatant {
	c := &Combatant{
		id:      id,
		spells:  spells,
		talents: make(map[int]int),
	}

	for i := range list {
		ev := &list[i]
		if ev.Kind == events.KindCombatantInfo && ev.SourceID == id {
			for _, t := range ev.Talents {
				c.talents[t.ID] = t.Rank
			}
			break
		}
	}

	c.buffs = buildBuffs(id, fightStart, list)
	c.live = c.buffs.prepull()
	c.cooldowns = buildCooldowns(id, list, spells, c.TalentRank)

	return c
}

func (c *Combatant) ID() int {
	return c.id
}

func (c *Combatant) HasTalent(talentID int) bool {
	return c.talents[talentID] > 0
}

func (c *Combatant) TalentRank(talentID int) int {
	return c.talents[talentID]
}

// HasBuff looks the buff up on the whole-fight timeline. A buff applied or
// removed at timestamp counts as active.
func (c *Combatant) HasBuff(buffID int, timestamp int64) bool {
	return c.buffs.active(buffID, timestamp)
}

// Track registers the live buff listeners. Call it before any analyzer
// registers so buff changes are applied ahead of their handlers.
func (c *Combatant) Track(d listeners) {
	c.live = c.buffs.prepull()
	d.AddEventListener(events.ApplyBuff, c.onBuffEvent)
	d.AddEventListener(events.RemoveBuff, c.onBuffEvent)
}

func (c *Combatant) onBuffEvent(ev *events.Event) {
	if ev.TargetID != c.id {
		return
	}
	c.live.apply(ev)
}

// BuffActive reports whether the buff is up given only the events
// replayed so far. Events later in the same millisecond are not seen.
func (c *Combatant) BuffActive(buffID int) bool {
	return c.live[buffID]
}

// ChargesAvailable reports charges ready immediately before any cast at
// timestamp. Spells without cooldown data report 0.
func (c *Combatant) ChargesAvailable(spellID int, timestamp int64) int {
	if t, ok := c.cooldowns[spellID]; ok {
		return t.available(timestamp)
	}

	spell, ok := c.spells.Get(spellID)
	if !ok || spell.Cooldown <= 0 {
		return 0
	}
	max := spell.Charges
	if max < 1 {
		max = 1
	}
	if spell.ChargeTalent != 0 {
		max += c.TalentRank(spell.ChargeTalent)
	}
	return max
}

// TargetHealth is the target's health fraction carried on the event.
func (c *Combatant) TargetHealth(ev *events.Event) (float64, bool) {
	if ev == nil || ev.MaxHitPoints <= 0 {
		return 0, false
	}
	return float64(ev.HitPoints) / float64(ev.MaxHitPoints), true
}
