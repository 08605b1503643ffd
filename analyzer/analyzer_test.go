package analyzer

import (
	"math"
	"testing"

	"combatlog_check/events"

	"github.com/stretchr/testify/assert"
)

var utilization = Breakpoints{Minor: 0.95, Average: 0.9, Major: 0.85}

func TestThresholdSeverityLessThan(t *testing.T) {
	cases := []struct {
		actual float64
		want   Severity
	}{
		{1, SeverityNone},
		{0.95, SeverityNone},
		{0.94, SeverityMinor},
		{0.9, SeverityMinor},
		{0.89, SeverityAverage},
		{0.85, SeverityAverage},
		{0.8, SeverityMajor},
		{0, SeverityMajor},
	}

	for _, c := range cases {
		th := Threshold{Actual: c.actual, IsLessThan: &utilization}
		assert.Equal(t, c.want, th.Severity(), "actual %v", c.actual)
	}
}

func TestThresholdSeverityGreaterThan(t *testing.T) {
	b := Breakpoints{Minor: 0.1, Average: 0.2, Major: 0.3}

	assert.Equal(t, SeverityNone, Threshold{Actual: 0.1, IsGreaterThan: &b}.Severity())
	assert.Equal(t, SeverityMinor, Threshold{Actual: 0.15, IsGreaterThan: &b}.Severity())
	assert.Equal(t, SeverityAverage, Threshold{Actual: 0.25, IsGreaterThan: &b}.Severity())
	assert.Equal(t, SeverityMajor, Threshold{Actual: 0.5, IsGreaterThan: &b}.Severity())
	assert.Equal(t, SeverityNone, Threshold{Actual: 0.5}.Severity())
}

func TestThresholdSeverityMonotonic(t *testing.T) {
	prev := SeverityMajor
	for v := 0.0; v <= utilization.Minor; v += 0.001 {
		sev := Threshold{Actual: v, IsLessThan: &utilization}.Severity()
		assert.LessOrEqual(t, int(sev), int(prev), "actual %v", v)
		prev = sev
	}
}

func TestThresholdFormat(t *testing.T) {
	assert.Equal(t, "80.00%", Threshold{Style: StylePercentage}.Format(0.8))
	assert.Equal(t, "2.50", Threshold{Style: StyleDecimal}.Format(2.5))
	assert.Equal(t, "1,500", Threshold{Style: StyleNumber}.Format(1500))
	assert.Equal(t, 0.95, Threshold{IsLessThan: &utilization}.Recommended())
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(3, 0))
	assert.False(t, math.IsNaN(Ratio(0, 0)))
	assert.Equal(t, 0.25, Ratio(1, 4))
}

type record struct {
	ev *events.Event
	ok bool
}

func TestObservationsAreAppendOnly(t *testing.T) {
	var o Observations[record]
	a := &events.Event{Timestamp: 1}
	b := &events.Event{Timestamp: 2}
	o.Append(record{ev: a, ok: true})
	o.Append(record{ev: b})

	kept := o.Filter(func(r record) bool { return r.ok })
	assert.Len(t, kept, 1)
	assert.Same(t, a, kept[0].ev)

	// filtering again yields the same answer
	assert.Equal(t, kept, o.Filter(func(r record) bool { return r.ok }))
	assert.Equal(t, 2, o.Len())
	assert.Equal(t, 1, o.Count(func(r record) bool { return !r.ok }))
}

func TestRegistryIgnoresDuplicates(t *testing.T) {
	r := NewRegistry()
	ev := &events.Event{Timestamp: 10, AbilityID: 5}

	r.HighlightInefficientCast(ev, "first")
	r.HighlightInefficientCast(ev, "second")
	r.HighlightInefficientCast(nil, "ignored")

	hl := r.Highlights()
	assert.Len(t, hl, 1)
	assert.Equal(t, "first", hl[0].Message)
	assert.True(t, r.IsHighlighted(ev))
	assert.False(t, r.IsHighlighted(&events.Event{Timestamp: 10, AbilityID: 5}))
}

func TestWhen(t *testing.T) {
	var w When
	calls := 0
	build := func(actual, recommended float64) Suggestion {
		calls++
		return Suggestion{Text: "x"}
	}

	w.Check(Threshold{Actual: 1, IsLessThan: &utilization}, build)
	w.Check(Threshold{Actual: 0.5, IsLessThan: &utilization}, build)

	assert.Equal(t, 1, calls)
	assert.Len(t, w.Suggestions(), 1)
	assert.Equal(t, SeverityMajor, w.Suggestions()[0].Severity)
}

func TestSeverityUnmarshalText(t *testing.T) {
	var s Severity
	assert.NoError(t, s.UnmarshalText([]byte("major")))
	assert.Equal(t, SeverityMajor, s)
	assert.Error(t, s.UnmarshalText([]byte("huge")))
}
