// Package trueshot measures how many Aimed Shots a marksmanship hunter
// fits inside each Trueshot window, and how much focus they start it with.
package trueshot

import (
	"fmt"

	"combatlog_check/analyzer"
	"combatlog_check/events"
	"combatlog_check/game"
)

var aimedShots = analyzer.Breakpoints{
	Minor:   3,
	Average: 2.5,
	Major:   2,
}

type Trueshot struct {
	ctx    analyzer.Context
	spells *game.SpellTable

	trueshotCasts           int
	accumulatedFocusAtCast  int
	aimedShotsInsideWindows int
}

func New(opt analyzer.Options) analyzer.Analyzer {
	t := &Trueshot{
		ctx:    opt.Context,
		spells: opt.Spells,
	}

	opt.Events.AddEventListener(events.Cast.By(events.SelectedPlayer).Spell(game.SpellTrueshot), t.onTrueshotCast)
	opt.Events.AddEventListener(events.Cast.By(events.SelectedPlayer).Spell(game.SpellAimedShot), t.onAimedShotCast)

	return t
}

func (t *Trueshot) Name() string {
	return "Trueshot"
}

func (t *Trueshot) onTrueshotCast(ev *events.Event) {
	t.trueshotCasts++

	resource, ok := ev.Resource(game.ResourceFocus)
	if !ok {
		return
	}
	t.accumulatedFocusAtCast += resource.Amount
}

func (t *Trueshot) onAimedShotCast(ev *events.Event) {
	if t.ctx.BuffActive(game.SpellTrueshot) {
		t.aimedShotsInsideWindows++
	}
}

func (t *Trueshot) Casts() int {
	return t.trueshotCasts
}

func (t *Trueshot) AverageAimedShots() float64 {
	return analyzer.Ratio(float64(t.aimedShotsInsideWindows), float64(t.trueshotCasts))
}

func (t *Trueshot) AverageFocus() float64 {
	return analyzer.Ratio(float64(t.accumulatedFocusAtCast), float64(t.trueshotCasts))
}

func (t *Trueshot) AimedShotThreshold() analyzer.Threshold {
	return analyzer.Threshold{
		Actual:     t.AverageAimedShots(),
		IsLessThan: &aimedShots,
		Style:      analyzer.StyleDecimal,
	}
}

func (t *Trueshot) Suggestions(when *analyzer.When) {
	if t.trueshotCasts == 0 {
		return
	}

	when.Check(t.AimedShotThreshold(), func(actual, recommended float64) analyzer.Suggestion {
		return analyzer.Suggestion{
			Text: fmt.Sprintf(
				"You only cast %.1f %ss inside your average %s window. This is your only DPS cooldown, and it's important to maximize it to its fullest potential by getting as many Aimed Shots squeezed in as possible.",
				actual,
				t.spells.Name(game.SpellAimedShot),
				t.spells.Name(game.SpellTrueshot),
			),
			Icon:        t.spells.Icon(game.SpellTrueshot),
			Actual:      fmt.Sprintf("Average of %.1f Aimed Shots per Trueshot.", actual),
			Recommended: fmt.Sprintf(">%g is recommended", recommended),
		}
	})
}

func (t *Trueshot) Statistic() *analyzer.Statistic {
	if t.trueshotCasts == 0 {
		return nil
	}

	return &analyzer.Statistic{
		Name:  t.Name(),
		Icon:  t.spells.Icon(game.SpellTrueshot),
		Value: fmt.Sprintf("%.1f Aimed Shots, %.0f Focus", t.AverageAimedShots(), t.AverageFocus()),
		Tooltip: []string{
			fmt.Sprintf("You started your Trueshot windows with an average of %.0f Focus.", t.AverageFocus()),
			fmt.Sprintf("You hit an average of %.1f Aimed Shots inside each Trueshot window.", t.AverageAimedShots()),
		},
	}
}

func (t *Trueshot) Checks() map[string]float64 {
	return map[string]float64{
		"average_aimed_shots": t.AverageAimedShots(),
		"average_focus":       t.AverageFocus(),
	}
}
