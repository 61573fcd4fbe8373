// Package yearfmt formats signed years as BCE/CE labels.
package yearfmt

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// groupFrom is the smallest magnitude that gets thousands separators.
// Four-digit years read better without them ("1939 CE", "10,000 BCE").
const groupFrom = 10_000

// SummaryLimit is the number of characters kept from an event summary.
const SummaryLimit = 60

const ellipsis = "..."

// Label formats an axis tick: "{abs} BCE" for negative years, "{year} CE"
// otherwise. Zero is CE.
func Label(year float64) string {
	if year < 0 {
		return number(-year) + " BCE"
	}
	return number(year) + " CE"
}

// Grouped formats a whole year with thousands separators for large magnitudes.
func Grouped(year int) string {
	era := " CE"
	abs := int64(year)
	if year < 0 {
		era = " BCE"
		abs = -abs
	}
	if abs < groupFrom {
		return strconv.FormatInt(abs, 10) + era
	}
	return humanize.Comma(abs) + era
}

// Span formats a start year and an optional end year. Point events and
// ranges ending on their start year render as a single label.
func Span(start int, end *int) string {
	if end == nil || *end == start {
		return Grouped(start)
	}
	return Grouped(start) + " — " + Grouped(*end)
}

// Truncate shortens s to limit characters and appends an ellipsis when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

func number(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
