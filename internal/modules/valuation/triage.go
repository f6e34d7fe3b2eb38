package valuation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

// TriageThreshold separates the Online stream (below) from the Physical stream (at or above).
const TriageThreshold = 20000.0

type TriageSuggestion struct {
	Suggested   types.TriageStatus `json:"suggested_triage"`
	Reason      string             `json:"reason"`
	EstimateLow *float64           `json:"estimate_low,omitempty"`
}

func SuggestTriage(estimateLow float64) TriageSuggestion {
	v := estimateLow
	s := TriageSuggestion{EstimateLow: &v}
	if estimateLow < TriageThreshold {
		s.Suggested = types.TriageOnline
		s.Reason = fmt.Sprintf(
			"Items under %s typically go to the Online stream. This item's lower estimate is %s.",
			FormatPounds(TriageThreshold), FormatPounds(estimateLow),
		)
		return s
	}
	s.Suggested = types.TriagePhysical
	s.Reason = fmt.Sprintf(
		"Items at or above %s typically go to the Physical stream. This item's lower estimate is %s.",
		FormatPounds(TriageThreshold), FormatPounds(estimateLow),
	)
	return s
}

// SuggestTriageText never fails: input that is not an amount falls back to Physical with an explanation.
func SuggestTriageText(raw string) TriageSuggestion {
	v, err := ParseAmount(raw)
	if err != nil {
		return TriageSuggestion{
			Suggested: types.TriagePhysical,
			Reason: fmt.Sprintf(
				"Could not read %q as an amount; defaulting to the Physical stream for manual review.",
				strings.TrimSpace(raw),
			),
		}
	}
	return SuggestTriage(v)
}

// ParseAmount accepts loosely formatted amounts such as " £20,000 " or "1 250.50".
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == ',', r == '_':
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimLeft(cleaned, "£$€")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not finite", raw)
	}
	return v, nil
}
