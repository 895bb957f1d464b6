package table

import (
	"strconv"
	"strings"
	"time"
)

// numericNameHints are column-name fragments that force a Numeric
// classification before any value is inspected. Crop datasets name their
// measurement columns with these fragments even when the raw cells are dirty.
var numericNameHints = []string{"value", "avg", "average", "temp", "rain", "yield", "tonnes"}

// dateLayouts are the accepted input layouts, tried in order. Dates are
// canonicalized to DateLayout after parsing.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"Jan 2, 2006",
}

// DateLayout is the canonical representation for date cells after load
const DateLayout = "2006-01-02"

// ParseNumber converts a cell to a float64, tolerating surrounding whitespace
// and thousands separators.
func ParseNumber(cell string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(cell), ",", ""), 64)
}

// FormatNumber renders a float back into a cell using the shortest exact form
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseDate converts a cell to a time using the accepted layouts
func ParseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	var err error
	for _, layout := range dateLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, cell); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// InferKind classifies a column from its name and raw values.
//
// The decision is a total order: the name rule is checked first, then numeric
// convertibility of every non-missing value, then date convertibility, and
// finally Categorical as the fallback. An all-missing column is Categorical
// because it carries no evidence for either of the stronger kinds.
func InferKind(name string, cells []string) Kind {
	lower := strings.ToLower(name)
	for _, hint := range numericNameHints {
		if strings.Contains(lower, hint) {
			return Numeric
		}
	}

	seen := false
	numeric := true
	date := true
	for _, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		seen = true
		if numeric {
			if _, err := ParseNumber(cell); err != nil {
				numeric = false
			}
		}
		if !numeric && date {
			if _, err := ParseDate(cell); err != nil {
				date = false
			}
		}
		if !numeric && !date {
			break
		}
	}

	switch {
	case !seen:
		return Categorical
	case numeric:
		return Numeric
	case date:
		// Numeric failed on some value, so re-check dates over the full
		// column: the loop above skips date parsing while numeric holds.
		for _, cell := range cells {
			if IsMissing(cell) {
				continue
			}
			if _, err := ParseDate(cell); err != nil {
				return Categorical
			}
		}
		return Date
	default:
		return Categorical
	}
}
