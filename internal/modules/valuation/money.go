package valuation

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbp = message.NewPrinter(language.BritishEnglish)

// FormatPounds renders an amount with thousands separators, dropping pence when whole.
func FormatPounds(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return gbp.Sprintf("£%d", int64(v))
	}
	return gbp.Sprintf("£%.2f", v)
}
