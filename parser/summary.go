package parser

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"combatlog_check/share"
)

var tmplSummary = template.Must(
	template.New("summary").
		Funcs(share.TemplateFuncMap).
		Parse(`{{ .ReportCode }}#{{ .FightID }} {{ .Class }} ({{ fn .Seconds }}s, {{ fn .Dispatched }} events)
{{ range .Statistics }}- {{ .Name }}: {{ .Value }}
{{ end }}{{ range .Suggestions }}! [{{ .Severity }}] {{ .Actual }} ({{ .Recommended }})
{{ end }}{{ range $k, $v := .Checks }}  {{ $k }} {{ percent $v }}%
{{ end }}`),
)

// Summary renders the result as plain text.
func (r *Result) Summary() (string, error) {
	var sb strings.Builder
	err := tmplSummary.Execute(&sb, struct {
		*Result
		Seconds float64
	}{
		Result:  r,
		Seconds: float64(r.Duration) / 1000,
	})
	if err != nil {
		return "", errors.WithStack(err)
	}
	return sb.String(), nil
}
