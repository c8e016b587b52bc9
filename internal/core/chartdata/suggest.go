package chartdata

import (
	"datalens/internal/core/rowset"
	ptime "datalens/internal/platform/time"
)

// Suggest picks a chart type for ad hoc query results from the first row
// an empty set yields no suggestion
func Suggest(set rowset.Set) string {
	if set.Empty() {
		return ""
	}
	first := set.Rows[0]

	var numeric, text, dates int
	for _, c := range columnsOf(set) {
		v := first[c]
		switch {
		case IsNumeric(v):
			numeric++
		default:
			s, ok := v.(string)
			if !ok {
				continue
			}
			text++
			if _, ok := ptime.Parse(s); ok {
				dates++
			}
		}
	}

	switch {
	case numeric == 1 && text >= 1:
		return "bar-chart"
	case numeric >= 2 && text >= 1:
		return "line-chart"
	case numeric == 2:
		return "scatter-plot"
	case dates >= 1 && numeric >= 1:
		return "line-chart"
	}
	return "bar-chart"
}

// columnsOf falls back to the first row's keys when the set carries no column order
func columnsOf(set rowset.Set) []string {
	if len(set.Columns) > 0 {
		return set.Columns
	}
	out := make([]string, 0, len(set.Rows[0]))
	for k := range set.Rows[0] {
		out = append(out, k)
	}
	return out
}
