// Package heatingup grades how a fire mage spends Fire Blast and Phoenix
// Flames: guaranteed crits should convert Heating Up into Hot Streak and
// never land while Hot Streak is already up.
package heatingup

import (
	"fmt"

	"combatlog_check/analyzer"
	"combatlog_check/events"
	"combatlog_check/game"
	"combatlog_check/share"
)

const (
	FirestarterThreshold  = 0.90
	SearingTouchThreshold = 0.30

	wastedMessage = "This Fire Blast was cast without Heating Up, Combustion, Searing Touch, or Firestarter active."
)

var utilization = analyzer.Breakpoints{
	Minor:   0.95,
	Average: 0.9,
	Major:   0.85,
}

type fireBlastCast struct {
	event        *events.Event
	hasHeatingUp bool
	hasHotStreak bool
}

type phoenixCast struct {
	event        *events.Event
	hasHotStreak bool
}

type HeatingUp struct {
	ctx         analyzer.Context
	highlighter analyzer.Highlighter
	spells      *game.SpellTable

	hasFirestarter  bool
	hasSearingTouch bool
	flameOnRank     int

	fireBlasts   analyzer.Observations[fireBlastCast]
	phoenixCasts analyzer.Observations[phoenixCast]

	highlighted bool
}

func New(opt analyzer.Options) analyzer.Analyzer {
	h := &HeatingUp{
		ctx:         opt.Context,
		highlighter: opt.Highlighter,
		spells:      opt.Spells,

		hasFirestarter:  opt.Context.HasTalent(game.TalentFirestarter),
		hasSearingTouch: opt.Context.HasTalent(game.TalentSearingTouch),
		flameOnRank:     opt.Context.TalentRank(game.TalentFlameOn),
	}

	opt.Events.AddEventListener(
		events.Cast.By(events.SelectedPlayer).Spell(game.TalentPhoenixFlame),
		h.onPhoenixCast,
	)
	opt.Events.AddEventListener(
		events.Cast.By(events.SelectedPlayer).Spell(game.SpellFireBlast),
		h.onFireBlastCast,
	)

	return h
}

func (h *HeatingUp) Name() string {
	return "Heating Up"
}

func (h *HeatingUp) onFireBlastCast(ev *events.Event) {
	h.fireBlasts.Append(fireBlastCast{
		event:        ev,
		hasHeatingUp: h.ctx.BuffActive(game.BuffHeatingUp),
		hasHotStreak: h.ctx.BuffActive(game.BuffHotStreak),
	})
}

func (h *HeatingUp) onPhoenixCast(ev *events.Event) {
	h.phoenixCasts.Append(phoenixCast{
		event:        ev,
		hasHotStreak: h.ctx.BuffActive(game.BuffHotStreak),
	})
}

// wastedFireBlasts returns Fire Blasts that neither converted Heating Up nor
// had another reason to be cast.
func (h *HeatingUp) wastedFireBlasts() []fireBlastCast {
	casts := h.fireBlasts.Filter(func(c fireBlastCast) bool {
		return !c.hasHeatingUp
	})

	// Hot Streak casts are counted separately
	casts = analyzer.Keep(casts, func(c fireBlastCast) bool {
		return !c.hasHotStreak
	})

	casts = analyzer.Keep(casts, func(c fireBlastCast) bool {
		return !h.ctx.HasBuff(game.TalentCombustion, c.event.Timestamp)
	})

	// Firestarter and Searing Touch make any cast a guaranteed crit
	casts = analyzer.Keep(casts, func(c fireBlastCast) bool {
		health, ok := h.ctx.TargetHealth(c.event)
		switch {
		case h.hasFirestarter:
			return ok && health > 0 && health < FirestarterThreshold
		case h.hasSearingTouch:
			return ok && health > 0 && health > SearingTouchThreshold
		default:
			return true
		}
	})

	// a cast at max charges would otherwise lose recharge time
	maxCharges := 1 + h.flameOnRank
	casts = analyzer.Keep(casts, func(c fireBlastCast) bool {
		return h.ctx.ChargesAvailable(game.SpellFireBlast, c.event.Timestamp) != maxCharges
	})

	return casts
}

func (h *HeatingUp) FireBlastsWithoutHeatingUp() int {
	return len(h.wastedFireBlasts())
}

func (h *HeatingUp) FireBlastsDuringHotStreak() int {
	return h.fireBlasts.Count(func(c fireBlastCast) bool {
		return c.hasHotStreak
	})
}

func (h *HeatingUp) PhoenixFlamesDuringHotStreak() int {
	return h.phoenixCasts.Count(func(c phoenixCast) bool {
		return c.hasHotStreak
	})
}

func (h *HeatingUp) TotalFireBlasts() int {
	return h.fireBlasts.Len()
}

func (h *HeatingUp) TotalPhoenixFlames() int {
	return h.phoenixCasts.Len()
}

func (h *HeatingUp) TotalWasted() int {
	return h.FireBlastsWithoutHeatingUp() + h.FireBlastsDuringHotStreak() + h.PhoenixFlamesDuringHotStreak()
}

func (h *HeatingUp) FireBlastUtilization() float64 {
	if h.TotalFireBlasts() == 0 {
		return 0
	}
	wasted := h.FireBlastsWithoutHeatingUp() + h.FireBlastsDuringHotStreak()
	return 1 - analyzer.Ratio(float64(wasted), float64(h.TotalFireBlasts()))
}

func (h *HeatingUp) PhoenixFlamesUtilization() float64 {
	if h.TotalPhoenixFlames() == 0 {
		return 0
	}
	return 1 - analyzer.Ratio(float64(h.PhoenixFlamesDuringHotStreak()), float64(h.TotalPhoenixFlames()))
}

func (h *HeatingUp) FireBlastUtilThreshold() analyzer.Threshold {
	return analyzer.Threshold{
		Actual:     h.FireBlastUtilization(),
		IsLessThan: &utilization,
		Style:      analyzer.StylePercentage,
	}
}

func (h *HeatingUp) PhoenixFlamesUtilThreshold() analyzer.Threshold {
	return analyzer.Threshold{
		Actual:     h.PhoenixFlamesUtilization(),
		IsLessThan: &utilization,
		Style:      analyzer.StylePercentage,
	}
}

// HighlightInefficient marks each wasted Fire Blast. Only the first call
// reports anything.
func (h *HeatingUp) HighlightInefficient() {
	if h.highlighted || h.highlighter == nil {
		return
	}
	h.highlighted = true

	for _, c := range h.wastedFireBlasts() {
		h.highlighter.HighlightInefficientCast(c.event, wastedMessage)
	}
}

func (h *HeatingUp) Suggestions(when *analyzer.When) {
	if h.TotalFireBlasts() > 0 {
		th := h.FireBlastUtilThreshold()
		when.Check(th, func(actual, recommended float64) analyzer.Suggestion {
			return analyzer.Suggestion{
				Text: fmt.Sprintf(
					"You cast %s %d times while %s was active and %d times while you didn't have %s. Make sure that you are only using Fire Blast to convert Heating Up into Hot Streak or if you are going to cap on charges.",
					h.spells.Name(game.SpellFireBlast),
					h.FireBlastsDuringHotStreak(),
					h.spells.Name(game.BuffHotStreak),
					h.FireBlastsWithoutHeatingUp(),
					h.spells.Name(game.BuffHeatingUp),
				),
				Icon:        h.spells.Icon(game.SpellFireBlast),
				Actual:      th.Format(actual) + " Utilization",
				Recommended: "<" + th.Format(recommended) + " is recommended",
			}
		})
	}

	if h.TotalPhoenixFlames() > 0 {
		th := h.PhoenixFlamesUtilThreshold()
		when.Check(th, func(actual, recommended float64) analyzer.Suggestion {
			return analyzer.Suggestion{
				Text: fmt.Sprintf(
					"You cast %s %d times while %s was active. This is a waste as the %s could have contributed towards the next %s or %s.",
					h.spells.Name(game.TalentPhoenixFlame),
					h.PhoenixFlamesDuringHotStreak(),
					h.spells.Name(game.BuffHotStreak),
					h.spells.Name(game.TalentPhoenixFlame),
					h.spells.Name(game.BuffHeatingUp),
					h.spells.Name(game.BuffHotStreak),
				),
				Icon:        h.spells.Icon(game.TalentPhoenixFlame),
				Actual:      th.Format(actual) + " Utilization",
				Recommended: "<" + th.Format(recommended) + " is recommended",
			}
		})
	}
}

func (h *HeatingUp) Statistic() *analyzer.Statistic {
	if h.TotalFireBlasts() == 0 && h.TotalPhoenixFlames() == 0 {
		return nil
	}

	value := share.FormatPercentage(h.FireBlastUtilization()) + "% Fire Blast Utilization"
	tooltip := []string{
		fmt.Sprintf("Fireblast used without Heating Up: %d", h.FireBlastsWithoutHeatingUp()),
		fmt.Sprintf("Fireblast used during Hot Streak: %d", h.FireBlastsDuringHotStreak()),
	}

	// Phoenix Flames is a talent, leave it out when it was never cast
	if h.TotalPhoenixFlames() > 0 {
		value += ", " + share.FormatPercentage(h.PhoenixFlamesUtilization()) + "% Phoenix Flames Utilization"
		tooltip = append(tooltip, fmt.Sprintf("Phoenix Flames used during Hot Streak: %d", h.PhoenixFlamesDuringHotStreak()))
	}

	return &analyzer.Statistic{
		Name:    h.Name(),
		Icon:    h.spells.Icon(game.BuffHeatingUp),
		Value:   value,
		Tooltip: tooltip,
	}
}

func (h *HeatingUp) Checks() map[string]float64 {
	return map[string]float64{
		"fire_blast_utilization":     h.FireBlastUtilization(),
		"phoenix_flames_utilization": h.PhoenixFlamesUtilization(),
	}
}
