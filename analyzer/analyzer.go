// Package analyzer holds what every efficiency analyzer shares: the
// read-only combatant context, listener registration, thresholds,
// suggestions and inefficient-cast highlighting.
package analyzer

import (
	"combatlog_check/events"
	"combatlog_check/game"
)

// Context is the combatant state an analyzer may query. Implementations are
// owned by the caller and never mutated by analyzers.
type Context interface {
	HasTalent(talentID int) bool
	TalentRank(talentID int) int
	// HasBuff is inclusive of buff events at timestamp and may be asked
	// after the replay.
	HasBuff(buffID int, timestamp int64) bool
	// BuffActive only sees events already dispatched. Use it to snapshot
	// state inside a handler.
	BuffActive(buffID int) bool
	ChargesAvailable(spellID int, timestamp int64) int
	TargetHealth(ev *events.Event) (float64, bool)
}

type Listeners interface {
	AddEventListener(filter events.Filter, handler events.Handler)
}

type Options struct {
	Context     Context
	Events      Listeners
	Highlighter Highlighter
	Spells      *game.SpellTable
}

type Analyzer interface {
	Name() string
	// Statistic returns nil when the analyzer has nothing to show.
	Statistic() *Statistic
	Suggestions(when *When)
}

// Highlighting is implemented by analyzers that mark inefficient casts
// once the replay is over.
type Highlighting interface {
	HighlightInefficient()
}

type Constructor func(opt Options) Analyzer

type Statistic struct {
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`
	Value   string   `json:"value"`
	Tooltip []string `json:"tooltip,omitempty"`
}

// Observations is an append-only list of analyzer records, each holding
// an event and the state captured when it arrived.
type Observations[T any] struct {
	list []T
}

func (o *Observations[T]) Append(rec T) {
	o.list = append(o.list, rec)
}

func (o *Observations[T]) Len() int {
	return len(o.list)
}

// Filter returns the records keep accepts, in arrival order.
func (o *Observations[T]) Filter(keep func(T) bool) []T {
	return Keep(o.list, keep)
}

func (o *Observations[T]) Count(keep func(T) bool) int {
	n := 0
	for _, v := range o.list {
		if keep(v) {
			n++
		}
	}
	return n
}

// Keep returns a new slice with the records keep accepts. The records
// themselves are never modified.
func Keep[T any](list []T, keep func(T) bool) []T {
	r := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			r = append(r, v)
		}
	}
	return r
}

// Ratio returns n/d, or 0 when d is 0.
func Ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}
