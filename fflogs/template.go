package fflogs

import (
	"embed"
	"text/template"
)

//go:embed query/*.tmpl
var queryFS embed.FS

var (
	tmplReportFight  = template.Must(template.ParseFS(queryFS, "query/reportFight.tmpl"))
	tmplReportEvents = template.Must(template.ParseFS(queryFS, "query/reportEvents.tmpl"))
)

// querySalt changes whenever a query does, so cached responses of an older
// query shape are dropped.
func querySalt() []string {
	var salt []string
	for _, name := range []string{"query/reportFight.tmpl", "query/reportEvents.tmpl"} {
		b, _ := queryFS.ReadFile(name)
		salt = append(salt, string(b))
	}
	return salt
}
