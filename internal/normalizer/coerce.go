package normalizer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount converts text like "1,250.50" to a decimal. Commas are
// stripped before parsing. Anything that still fails to parse, including
// blank cells, yields zero with ok set to false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// dateLayouts is tried in order. Month-first slashes come before day-first
// so "03/04/2024" reads as March 4th; "15/01/2024" falls through to the
// day-first layout.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"01/02/06",
	"02/01/06",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"02-Jan-2006 15:04:05",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"2006/01/02",
	"02.01.2006",
}

// ParseDate tries each known layout against the trimmed text. On failure it
// returns the zero time and ok=false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
