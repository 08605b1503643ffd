package analyzer

import (
	"fmt"

	"github.com/pkg/errors"

	"combatlog_check/share"
)

type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityAverage
	SeverityMajor
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityAverage:
		return "average"
	case SeverityMajor:
		return "major"
	}
	return "none"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*s = SeverityNone
	case "minor":
		*s = SeverityMinor
	case "average":
		*s = SeverityAverage
	case "major":
		*s = SeverityMajor
	default:
		return errors.Errorf("unknown severity %q", b)
	}
	return nil
}

type ThresholdStyle int

const (
	StylePercentage ThresholdStyle = iota
	StyleDecimal
	StyleNumber
	StyleSeconds
)

type Breakpoints struct {
	Minor   float64
	Average float64
	Major   float64
}

// Threshold grades Actual against breakpoints. Exactly one of IsLessThan and
// IsGreaterThan should be set; with neither set the severity is none.
type Threshold struct {
	Actual        float64
	IsLessThan    *Breakpoints
	IsGreaterThan *Breakpoints
	Style         ThresholdStyle
}

// Severity returns the most severe breakpoint crossed by Actual.
func (t Threshold) Severity() Severity {
	switch {
	case t.IsLessThan != nil:
		b := t.IsLessThan
		switch {
		case t.Actual < b.Major:
			return SeverityMajor
		case t.Actual < b.Average:
			return SeverityAverage
		case t.Actual < b.Minor:
			return SeverityMinor
		}

	case t.IsGreaterThan != nil:
		b := t.IsGreaterThan
		switch {
		case t.Actual > b.Major:
			return SeverityMajor
		case t.Actual > b.Average:
			return SeverityAverage
		case t.Actual > b.Minor:
			return SeverityMinor
		}
	}

	return SeverityNone
}

// Recommended is the minor breakpoint, the value the player should reach.
func (t Threshold) Recommended() float64 {
	switch {
	case t.IsLessThan != nil:
		return t.IsLessThan.Minor
	case t.IsGreaterThan != nil:
		return t.IsGreaterThan.Minor
	}
	return 0
}

func (t Threshold) Format(v float64) string {
	switch t.Style {
	case StylePercentage:
		return share.FormatPercentage(v) + "%"
	case StyleDecimal:
		return fmt.Sprintf("%.2f", v)
	case StyleSeconds:
		return fmt.Sprintf("%.1fs", v)
	}
	return share.FormatNumber(v)
}
