package analysispool

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxFights = 10

type RequestData struct {
	ReportCode string `json:"report_code"`
	FightIDs   []int  `json:"fight_ids"`
	CharName   string `json:"char_name"`

	// reCAPTCHA response, checked only when a verifier is configured
	Token string `json:"token"`
}

func (rd *RequestData) CheckOptionValidation() bool {
	rd.ReportCode = strings.TrimSpace(rd.ReportCode)
	rd.CharName = strings.TrimSpace(rd.CharName)

	lenCharName := utf8.RuneCountInString(rd.CharName)

	switch {
	case len(rd.ReportCode) < 8:
	case len(rd.ReportCode) > 32:
	case lenCharName < 2:
	case lenCharName > 24:
	case len(rd.FightIDs) == 0:
	case len(rd.FightIDs) > maxFights:
	default:
		for _, c := range rd.ReportCode {
			if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
				return false
			}
		}
		for _, id := range rd.FightIDs {
			if id <= 0 {
				return false
			}
		}
		return true
	}

	return false
}

// Hash identifies equivalent requests: names compare case-insensitively and
// fight order does not matter.
func (rd *RequestData) Hash() uint64 {
	ids := append([]int(nil), rd.FightIDs...)
	sort.Ints(ids)

	h := fnv.New64a()
	fmt.Fprint(
		h,
		rd.ReportCode, "|||",
		strings.ToLower(rd.CharName), "|||",
		ids, "|||",
	)

	return h.Sum64()
}
