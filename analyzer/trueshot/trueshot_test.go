package trueshot

import (
	"context"
	"testing"

	"combatlog_check/analyzer"
	"combatlog_check/combatant"
	"combatlog_check/events"
	"combatlog_check/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const player = 4

func cast(ts int64, spell int) events.Event {
	return events.Event{Timestamp: ts, Kind: events.KindCast, SourceID: player, AbilityID: spell}
}

func run(t *testing.T, list []events.Event) *Trueshot {
	events.Sort(list)
	c := combatant.New(player, 0, list, game.Spells)
	d := events.NewDispatcher(player)
	c.Track(d)

	a := New(analyzer.Options{Context: c, Events: d, Spells: game.Spells}).(*Trueshot)
	require.NoError(t, d.Run(context.Background(), list))
	return a
}

func TestAimedShotsInsideWindows(t *testing.T) {
	ts1 := cast(1000, game.SpellTrueshot)
	ts1.ClassResources = []events.ClassResource{{Type: game.ResourceFocus, Amount: 90, Max: 100}}
	ts2 := cast(200000, game.SpellTrueshot)

	a := run(t, []events.Event{
		ts1,
		{Timestamp: 1000, Kind: events.KindApplyBuff, TargetID: player, AbilityID: game.SpellTrueshot},
		cast(2000, game.SpellAimedShot),
		cast(5000, game.SpellAimedShot),
		cast(9000, game.SpellAimedShot),
		{Timestamp: 16000, Kind: events.KindRemoveBuff, TargetID: player, AbilityID: game.SpellTrueshot},
		cast(20000, game.SpellAimedShot),
		ts2,
		{Timestamp: 200000, Kind: events.KindApplyBuff, TargetID: player, AbilityID: game.SpellTrueshot},
		cast(201000, game.SpellAimedShot),
		{Timestamp: 215000, Kind: events.KindRemoveBuff, TargetID: player, AbilityID: game.SpellTrueshot},
	})

	assert.Equal(t, 2, a.Casts())
	assert.InDelta(t, 2.0, a.AverageAimedShots(), 1e-9)
	assert.InDelta(t, 45.0, a.AverageFocus(), 1e-9, "second cast had no focus snapshot")
	assert.Equal(t, analyzer.SeverityAverage, a.AimedShotThreshold().Severity())

	var when analyzer.When
	a.Suggestions(&when)
	require.Len(t, when.Suggestions(), 1)
	assert.Equal(t, "Average of 2.0 Aimed Shots per Trueshot.", when.Suggestions()[0].Actual)
	assert.Equal(t, ">3 is recommended", when.Suggestions()[0].Recommended)

	stat := a.Statistic()
	require.NotNil(t, stat)
	assert.Equal(t, "2.0 Aimed Shots, 45 Focus", stat.Value)
}

func TestNoTrueshot(t *testing.T) {
	a := run(t, []events.Event{cast(1000, game.SpellAimedShot)})

	assert.Equal(t, 0.0, a.AverageAimedShots())
	assert.Equal(t, 0.0, a.AverageFocus())
	assert.Nil(t, a.Statistic())

	var when analyzer.When
	a.Suggestions(&when)
	assert.Empty(t, when.Suggestions())
}
