package core

// convert.go infers cell and column types from raw text.
//
// The parsers are tolerant of what users actually put in spreadsheets:
//   - Currency symbols and thousand separators in numbers
//   - Accounting negatives like (123.45)
//   - US, EU and ISO date layouts, with 2-digit year pivoting
//
// Inference never changes the text of a cell; Value.Raw always keeps the
// source text so display, search and format see what the user wrote.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00",
		"Jan 2, 2006", "2 Jan 2006",
	}
)

// nullSentinels are the cell texts loaded as missing values.
var nullSentinels = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNullSentinel reports whether s is loaded as a missing value.
func IsNullSentinel(s string) bool {
	_, ok := nullSentinels[s]
	return ok
}

// ParseNumber parses a numeric cell.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseDate parses a date cell.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseValue converts raw cell text into a Value.
// Numbers win over dates so that plain integers like 20240115 stay numeric.
func ParseValue(raw string) Value {
	if IsNullSentinel(raw) {
		return Value{Kind: KindMissing}
	}
	if f, ok := ParseNumber(raw); ok {
		return Value{Kind: KindNumber, Raw: raw, Num: f}
	}
	if t, ok := ParseDate(raw); ok {
		return Value{Kind: KindDate, Raw: raw, Time: t}
	}
	return Value{Kind: KindText, Raw: raw}
}

// InferKinds returns the column kinds for rows laid out against n columns.
//
// A column takes a non-text kind only if every non-missing value shares it;
// any disagreement makes the column text. A column with no values at all is
// KindMissing.
func InferKinds(rows [][]Value, n int) []Kind {
	kinds := make([]Kind, n)
	for col := 0; col < n; col++ {
		kind := KindMissing
		for _, row := range rows {
			v := row[col]
			if v.Kind == KindMissing {
				continue
			}
			if kind == KindMissing {
				kind = v.Kind
				continue
			}
			if kind != v.Kind {
				kind = KindText
				break
			}
		}
		kinds[col] = kind
	}
	return kinds
}
