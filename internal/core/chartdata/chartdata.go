// Package chartdata projects row sets into the flat series charts render
package chartdata

import (
	"math"
	"strings"

	"datalens/internal/core/charttypes"
	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	ptime "datalens/internal/platform/time"
)

// Trend is the direction of a series from its first to its last value
type Trend string

// Trend values
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Unknown labels rows whose label column is missing or empty
const Unknown = "Unknown"

// labelTimeLayout is used for builder previews, inferDayLayout for dashboard widgets
const (
	labelTimeLayout = "2006-01-02 15:04:05"
	inferDayLayout  = "2006-01-02"
)

// Dataset is one named series
type Dataset struct {
	Label  string    `json:"label" example:"sum_total"`
	Values []float64 `json:"values"`
}

// Metadata summarises the primary series
type Metadata struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Trend   Trend   `json:"trend" enums:"up,down,stable"`
}

// Data is the chart ready projection of a row set
type Data struct {
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
	Datasets []Dataset `json:"datasets,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// FromDraft projects rows produced by the query built from d
func FromDraft(set rowset.Set, d querygen.Draft) Data {
	out := Data{Labels: make([]string, 0, set.Len()), Values: make([]float64, 0, set.Len())}

	timeAxis := d.XAxis != "" && d.ColumnType(d.XAxis) == querygen.ColumnTime
	labelCol := labelColumn(set, d)
	metricCols := metricColumns(set.Columns)

	for _, row := range set.Rows {
		if timeAxis {
			out.Labels = append(out.Labels, timeLabel(row, d.XAxis))
		} else {
			out.Labels = append(out.Labels, labelOf(row[labelCol]))
		}
		if len(metricCols) > 0 {
			out.Values = append(out.Values, toFloat(row[metricCols[0]]))
		} else {
			out.Values = append(out.Values, 0)
		}
	}

	if len(metricCols) > 1 {
		for _, c := range metricCols {
			ds := Dataset{Label: c, Values: make([]float64, 0, set.Len())}
			for _, row := range set.Rows {
				ds.Values = append(ds.Values, toFloat(row[c]))
			}
			out.Datasets = append(out.Datasets, ds)
		}
	}
	out.Metadata = Summarize(out.Values)
	return out
}

// timeLabel prefers the x-axis value and falls back to __time
func timeLabel(row rowset.Row, xAxis string) string {
	v, ok := row[xAxis]
	if !ok || v == nil {
		v = row["__time"]
	}
	if t, ok := ptime.Parse(v); ok {
		return t.UTC().Format(labelTimeLayout)
	}
	return labelOf(v)
}

// labelColumn picks x-axis, then first dimension, then first column
// JSON paths resolve to the alias the query selected them under
func labelColumn(set rowset.Set, d querygen.Draft) string {
	for _, c := range append([]string{d.XAxis}, d.Dimensions...) {
		if c == "" {
			continue
		}
		if d.ColumnType(c) == querygen.ColumnJSON {
			return querygen.JSONAlias(c)
		}
		return c
	}
	if len(set.Columns) > 0 {
		return set.Columns[0]
	}
	return ""
}

// metricColumns lists result columns holding aggregates, in column order
func metricColumns(columns []string) []string {
	var out []string
	for _, c := range columns {
		if strings.Contains(c, "_total") || strings.Contains(c, "count") {
			out = append(out, c)
		}
	}
	return out
}

// Infer projects an arbitrary row set for a widget of the given chart type
func Infer(set rowset.Set, chartType string) Data {
	out := Data{Labels: []string{}, Values: []float64{}}
	if set.Empty() || len(set.Columns) == 0 {
		return out
	}

	switch charttypes.Normalize(chartType) {
	case "line-chart", "area-chart", "bar-chart", "time-series":
		timeCol := timeColumn(set.Columns)
		valueCol := numericColumn(set, timeCol)
		if timeCol != "" && valueCol != "" {
			for _, row := range set.Rows {
				out.Labels = append(out.Labels, dayLabel(row[timeCol]))
				out.Values = append(out.Values, toFloat(row[valueCol]))
			}
			out.Metadata = Summarize(out.Values)
			return out
		}
		return positional(set, out)
	default:
		return positional(set, out)
	}
}

// positional uses the first column for labels and the second (else the first) for values
func positional(set rowset.Set, out Data) Data {
	labelCol := set.Columns[0]
	valueCol := labelCol
	if len(set.Columns) > 1 {
		valueCol = set.Columns[1]
	}
	for _, row := range set.Rows {
		out.Labels = append(out.Labels, labelOf(row[labelCol]))
		out.Values = append(out.Values, toFloat(row[valueCol]))
	}
	out.Metadata = Summarize(out.Values)
	return out
}

func timeColumn(columns []string) string {
	for _, c := range columns {
		l := strings.ToLower(c)
		if c == "__time" || c == "time_group" || strings.Contains(l, "time") || strings.Contains(l, "date") {
			return c
		}
	}
	return ""
}

// numericColumn is the first column other than skip whose first row value is numeric
func numericColumn(set rowset.Set, skip string) string {
	first := set.Rows[0]
	for _, c := range set.Columns {
		if c == skip {
			continue
		}
		if IsNumeric(first[c]) {
			return c
		}
	}
	return ""
}

func dayLabel(v any) string {
	if t, ok := ptime.Parse(v); ok {
		return t.UTC().Format(inferDayLayout)
	}
	return labelOf(v)
}

// Summarize computes metadata over values, nil when there are none
func Summarize(values []float64) *Metadata {
	if len(values) == 0 {
		return nil
	}
	m := &Metadata{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		m.Total += v
		m.Min = math.Min(m.Min, v)
		m.Max = math.Max(m.Max, v)
	}
	m.Average = m.Total / float64(len(values))
	m.Trend = TrendOf(values)
	return m
}

// TrendOf compares the last value with the first, changes within 1% are stable
func TrendOf(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	first, last := values[0], values[len(values)-1]
	if first == 0 {
		switch {
		case last > 0:
			return TrendUp
		case last < 0:
			return TrendDown
		}
		return TrendStable
	}
	change := (last - first) / math.Abs(first)
	switch {
	case change > 0.01:
		return TrendUp
	case change < -0.01:
		return TrendDown
	}
	return TrendStable
}
