// Package statements turns raw disclosure line items into normalized
// financial statements and ratios. Nothing in this package performs I/O.
package statements

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	hundredMillion = 1e8
	trillion       = 1e12
)

// krw formats plain amounts with Korean digit grouping
var krw = message.NewPrinter(language.Korean)

// ParseRaw strips thousands separators and parses a decimal amount.
// ok is false for empty, placeholder or non-numeric input.
func ParseRaw(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "-", "undefined", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ToUnit converts a raw amount in won to hundred-millions of won (억원),
// rounded to two decimals. Unparseable input yields 0.
func ToUnit(raw string) float64 {
	v, ok := ParseRaw(raw)
	if !ok {
		return 0
	}
	return round2(v / hundredMillion)
}

// FormatDisplay renders a raw amount for people: 조원 from 10^12, 억원 from
// 10^8, otherwise grouped won. Unparseable input renders as "0원".
func FormatDisplay(raw string) string {
	v, ok := ParseRaw(raw)
	if !ok {
		return "0원"
	}
	switch {
	case v >= trillion:
		return strconv.FormatFloat(v/trillion, 'f', 2, 64) + "조원"
	case v >= hundredMillion:
		return strconv.FormatFloat(v/hundredMillion, 'f', 2, 64) + "억원"
	default:
		return formatWon(v) + "원"
	}
}

// FormatRawFromUnits converts hundred-millions back to a grouped raw won string
func FormatRawFromUnits(units float64) string {
	return krw.Sprintf("%d", int64(math.Round(units*hundredMillion)))
}

func formatWon(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return krw.Sprintf("%d", int64(v))
	}
	return krw.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// formatRaw renders a derived amount the way the API would, without grouping
func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
