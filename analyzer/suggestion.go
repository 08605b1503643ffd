package analyzer

type Suggestion struct {
	Text        string   `json:"text"`
	Icon        string   `json:"icon"`
	Actual      string   `json:"actual"`
	Recommended string   `json:"recommended"`
	Severity    Severity `json:"severity"`
}

// When collects suggestions for thresholds that were not met.
type When struct {
	list []Suggestion
}

// Check calls build only when t has a severity, and records the result
// with that severity.
func (w *When) Check(t Threshold, build func(actual, recommended float64) Suggestion) {
	sev := t.Severity()
	if sev == SeverityNone {
		return
	}

	s := build(t.Actual, t.Recommended())
	s.Severity = sev
	w.list = append(w.list, s)
}

func (w *When) Suggestions() []Suggestion {
	return w.list
}
