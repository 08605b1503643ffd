package share

import (
	"math"
	"strconv"
	"text/template"

	"github.com/dustin/go-humanize"
)

var (
	TemplateFuncMap = template.FuncMap{
		"fn": func(value interface{}) string {
			switch e := value.(type) {
			case float32:
				return humanize.CommafWithDigits(round1(float64(e)), 1)
			case float64:
				return humanize.CommafWithDigits(round1(e), 1)
			case int:
				return humanize.Comma(int64(e))
			case int64:
				return humanize.Comma(e)
			}
			return ""
		},
		"percent": FormatPercentage,
	}
)

// FormatPercentage renders a 0..1 ratio as a percentage with two decimals,
// without the percent sign.
func FormatPercentage(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 2, 64)
}

func FormatNumber(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
