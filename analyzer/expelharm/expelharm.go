package expelharm

import (
	"fmt"

	"combatlog_check/analyzer"
	"combatlog_check/events"
	"combatlog_check/game"
	"combatlog_check/share"
)

type ExpelHarm struct {
	spells *game.SpellTable

	SelfHealing    int
	SelfOverheal   int
	TargetHealing  int
	TargetOverheal int
	GustsHealing   int
}

func New(opt analyzer.Options) analyzer.Analyzer {
	e := &ExpelHarm{
		spells: opt.Spells,
	}

	opt.Events.AddEventListener(events.Heal.By(events.SelectedPlayer).Spell(game.SpellExpelHarm), e.handleExpelHarm)
	opt.Events.AddEventListener(events.Heal.By(events.SelectedPlayer).Spell(game.SpellExpelHarmTargetHeal), e.handleTargetExpelHarm)
	opt.Events.AddEventListener(events.Heal.By(events.SelectedPlayer).Spell(game.SpellGustsOfMists), e.handleMastery)

	return e
}

func (e *ExpelHarm) Name() string {
	return "Expel Harm"
}

func (e *ExpelHarm) handleExpelHarm(ev *events.Event) {
	e.SelfHealing += ev.Effective()
	e.SelfOverheal += ev.Overheal
}

func (e *ExpelHarm) handleTargetExpelHarm(ev *events.Event) {
	e.TargetHealing += ev.Effective()
	e.TargetOverheal += ev.Overheal
}

func (e *ExpelHarm) handleMastery(ev *events.Event) {
	if ev.LinkedTo(game.SpellExpelHarm) && !ev.LinkedTo(game.SpellEssenceFont) {
		e.GustsHealing += ev.Effective()
	}
}

func (e *ExpelHarm) TotalHealing() int {
	return e.SelfHealing + e.TargetHealing + e.GustsHealing
}

func (e *ExpelHarm) OverhealRatio() float64 {
	overheal := float64(e.SelfOverheal + e.TargetOverheal)
	return analyzer.Ratio(overheal, float64(e.SelfHealing+e.TargetHealing)+overheal)
}

func (e *ExpelHarm) Suggestions(*analyzer.When) {}

func (e *ExpelHarm) Statistic() *analyzer.Statistic {
	if e.TotalHealing() == 0 && e.SelfOverheal+e.TargetOverheal == 0 {
		return nil
	}

	return &analyzer.Statistic{
		Name:  e.Name(),
		Icon:  e.spells.Icon(game.SpellExpelHarm),
		Value: share.FormatNumber(float64(e.TotalHealing())) + " Healing",
		Tooltip: []string{
			fmt.Sprintf("Self healing: %s (%s overheal)", share.FormatNumber(float64(e.SelfHealing)), share.FormatNumber(float64(e.SelfOverheal))),
			fmt.Sprintf("Target healing: %s (%s overheal)", share.FormatNumber(float64(e.TargetHealing)), share.FormatNumber(float64(e.TargetOverheal))),
			fmt.Sprintf("Gust of Mists healing: %s", share.FormatNumber(float64(e.GustsHealing))),
			fmt.Sprintf("Overhealing: %s%%", share.FormatPercentage(e.OverhealRatio())),
		},
	}
}

func (e *ExpelHarm) Checks() map[string]float64 {
	return map[string]float64{
		"overheal_ratio": e.OverhealRatio(),
	}
}
