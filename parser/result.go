package parser

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"combatlog_check/analyzer"
)

type Result struct {
	ReportCode string `json:"report_code"`
	FightID    int    `json:"fight_id"`
	SourceID   int    `json:"source_id"`
	Class      string `json:"class"`
	Duration   int64  `json:"duration"`
	Dispatched int    `json:"dispatched"`

	Statistics  []analyzer.Statistic  `json:"statistics"`
	Suggestions []analyzer.Suggestion `json:"suggestions"`
	Highlights  []analyzer.Highlight  `json:"highlights"`
	Checks      map[string]float64    `json:"checks"`
}

func (r *Result) WriteTo(w io.Writer) (int64, error) {
	b, err := jsoniter.Marshal(r)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	n, err := w.Write(b)
	return int64(n), errors.WithStack(err)
}

// ReadFight decodes a fight uploaded as JSON.
func ReadFight(r io.Reader) (*Fight, error) {
	var fight Fight
	err := jsoniter.NewDecoder(r).Decode(&fight)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &fight, nil
}
