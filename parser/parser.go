// Package parser replays one fight through the analyzers registered for
// the selected player's class.
package parser

import (
	"context"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"combatlog_check/analyzer"
	"combatlog_check/analyzer/expelharm"
	"combatlog_check/analyzer/heatingup"
	"combatlog_check/analyzer/trueshot"
	"combatlog_check/combatant"
	"combatlog_check/events"
	"combatlog_check/game"
	"combatlog_check/logger"
	"combatlog_check/share/parallel"
)

var (
	ErrUnknownClass     = errors.New("unknown class")
	ErrUnsupportedClass = errors.New("no analyzers for class")
	ErrNoEvents         = errors.New("fight has no events")
)

// Modules lists the analyzers run for each class, in statistic order.
var Modules = map[string][]analyzer.Constructor{
	"Mage":   {heatingup.New},
	"Hunter": {trueshot.New},
	"Monk":   {expelharm.New},
}

type Fight struct {
	ReportCode string         `json:"report_code"`
	FightID    int            `json:"fight_id"`
	SourceID   int            `json:"source_id"`
	Class      string         `json:"class"`
	StartTime  int64          `json:"start_time"`
	EndTime    int64          `json:"end_time"`
	Events     []events.Event `json:"events"`
}

type Options struct {
	Spells *game.SpellTable

	// Workers bounds AnalyzeAll. Zero means one fight at a time.
	Workers int
}

type checker interface {
	Checks() map[string]float64
}

func Analyze(ctx context.Context, fight *Fight, opt Options) (*Result, error) {
	if !game.ValidClass(fight.Class) {
		return nil, errors.Wrapf(ErrUnknownClass, "class %q", fight.Class)
	}
	modules, ok := Modules[fight.Class]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedClass, "class %q", fight.Class)
	}
	if len(fight.Events) == 0 {
		return nil, errors.WithStack(ErrNoEvents)
	}

	spells := opt.Spells
	if spells == nil {
		spells = game.Spells
	}

	events.Sort(fight.Events)

	c := combatant.New(fight.SourceID, fight.StartTime, fight.Events, spells)
	d := events.NewDispatcher(fight.SourceID)
	c.Track(d)
	reg := analyzer.NewRegistry()

	list := make([]analyzer.Analyzer, 0, len(modules))
	for _, newAnalyzer := range modules {
		list = append(
			list,
			newAnalyzer(analyzer.Options{
				Context:     c,
				Events:      d,
				Highlighter: reg,
				Spells:      spells,
			}),
		)
	}

	err := d.Run(ctx, fight.Events)
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		if h, ok := a.(analyzer.Highlighting); ok {
			h.HighlightInefficient()
		}
	}

	r := &Result{
		ReportCode: fight.ReportCode,
		FightID:    fight.FightID,
		SourceID:   fight.SourceID,
		Class:      fight.Class,
		Duration:   fight.EndTime - fight.StartTime,
		Dispatched: d.Dispatched(),
		Checks:     make(map[string]float64),
	}

	var when analyzer.When
	for _, a := range list {
		if stat := a.Statistic(); stat != nil {
			r.Statistics = append(r.Statistics, *stat)
		}
		a.Suggestions(&when)

		if ch, ok := a.(checker); ok {
			for k, v := range ch.Checks() {
				r.Checks[k] = v
			}
		}
	}
	r.Suggestions = when.Suggestions()
	r.Highlights = reg.Highlights()

	sort.SliceStable(r.Suggestions, func(i, j int) bool {
		return r.Suggestions[i].Severity > r.Suggestions[j].Severity
	})

	checkNaN(r)

	log.Debug().
		Str("report", fight.ReportCode).
		Int("fight", fight.FightID).
		Int("dispatched", r.Dispatched).
		Int("highlights", len(r.Highlights)).
		Msg("fight analyzed")

	return r, nil
}

// AnalyzeAll analyzes every fight with its own analyzers. Results keep the
// order of fights.
func AnalyzeAll(ctx context.Context, fights []*Fight, opt Options) ([]*Result, error) {
	results := make([]*Result, len(fights))

	pp := parallel.New(opt.Workers)
	pp.Reset(ctx)

	for i, fight := range fights {
		i, fight := i, fight
		pp.Add(func(ctx context.Context) error {
			r, err := Analyze(ctx, fight, opt)
			if err != nil {
				return errors.Wrapf(err, "%s#%d", fight.ReportCode, fight.FightID)
			}
			results[i] = r
			return nil
		})
	}

	err := pp.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

// SupportedClasses lists the classes with analyzers in class order.
func SupportedClasses() []string {
	list := make([]string, 0, len(Modules))
	for class := range Modules {
		list = append(list, class)
	}
	sort.Slice(list, func(i, j int) bool {
		return game.ClassOrder[list[i]] < game.ClassOrder[list[j]]
	})
	return list
}

func checkNaN(r *Result) {
	for k, v := range r.Checks {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logger.CaptureError(
				errors.Errorf("NaN : %s#%d source %d (%s)", r.ReportCode, r.FightID, r.SourceID, k),
				"invalid check value",
			)
			r.Checks[k] = 0
		}
	}
}
