package chartdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
)

func TestFromDraft_TimeAxis(t *testing.T) {
	set := rowset.Set{
		Columns: []string{"__time", "count_total", "sum_total"},
		Rows: []rowset.Row{
			{"__time": "2025-03-04T05:06:07.000Z", "count_total": json.Number("3"), "sum_total": json.Number("10.5")},
			{"__time": "2025-03-05T00:00:00.000Z", "count_total": json.Number("4"), "sum_total": nil},
		},
	}
	d := querygen.Draft{Dataset: "light_table", XAxis: "__time", Metrics: []querygen.Metric{querygen.MetricCount, querygen.MetricSum}}

	got := FromDraft(set, d)
	assert.Equal(t, []string{"2025-03-04 05:06:07", "2025-03-05 00:00:00"}, got.Labels)
	assert.Equal(t, []float64{3, 4}, got.Values)
	require.Len(t, got.Datasets, 2)
	assert.Equal(t, "sum_total", got.Datasets[1].Label)
	assert.Equal(t, []float64{10.5, 0}, got.Datasets[1].Values)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, TrendUp, got.Metadata.Trend)
}

func TestFromDraft_LabelColumnFallbacks(t *testing.T) {
	set := rowset.Set{
		Columns: []string{"region", "json_device_id", "count_total"},
		Rows: []rowset.Row{
			{"region": "eu", "json_device_id": "d1", "count_total": float64(2)},
			{"region": "", "json_device_id": nil, "count_total": "x"},
		},
	}

	tests := []struct {
		name   string
		draft  querygen.Draft
		labels []string
	}{
		{name: "x axis", draft: querygen.Draft{XAxis: "region"}, labels: []string{"eu", Unknown}},
		{name: "first dimension", draft: querygen.Draft{Dimensions: []string{"region"}}, labels: []string{"eu", Unknown}},
		{name: "json dimension uses alias", draft: querygen.Draft{Dimensions: []string{"$.device.id"}}, labels: []string{"d1", Unknown}},
		{name: "first column", draft: querygen.Draft{}, labels: []string{"eu", Unknown}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := FromDraft(set, tc.draft)
			assert.Equal(t, tc.labels, got.Labels)
			assert.Equal(t, []float64{2, 0}, got.Values)
			assert.Empty(t, got.Datasets)
		})
	}
}

func TestFromDraft_NoMetricColumn(t *testing.T) {
	set := rowset.Set{Columns: []string{"region"}, Rows: []rowset.Row{{"region": "eu"}}}
	got := FromDraft(set, querygen.Draft{})
	assert.Equal(t, []float64{0}, got.Values)
}

func TestInfer(t *testing.T) {
	timeSet := rowset.Set{
		Columns: []string{"time_group", "label", "value"},
		Rows: []rowset.Row{
			{"time_group": "2025-03-04T05:06:07Z", "label": "a", "value": json.Number("1")},
			{"time_group": float64(1741064767000), "label": "b", "value": "2"},
		},
	}
	catSet := rowset.Set{
		Columns: []string{"region", "total"},
		Rows: []rowset.Row{
			{"region": "eu", "total": 5},
			{"region": "us", "total": 7},
		},
	}
	single := rowset.Set{Columns: []string{"n"}, Rows: []rowset.Row{{"n": 9}}}

	tests := []struct {
		name   string
		set    rowset.Set
		typ    string
		labels []string
		values []float64
	}{
		{name: "line alias uses time column", set: timeSet, typ: "line", labels: []string{"2025-03-04", "2025-03-04"}, values: []float64{1, 2}},
		{name: "bar without time column is positional", set: catSet, typ: "bar-chart", labels: []string{"eu", "us"}, values: []float64{5, 7}},
		{name: "pie", set: catSet, typ: "pie", labels: []string{"eu", "us"}, values: []float64{5, 7}},
		{name: "default single column", set: single, typ: "big-number", labels: []string{"9"}, values: []float64{9}},
		{name: "empty", set: rowset.Set{Columns: []string{"a"}}, typ: "line", labels: []string{}, values: []float64{}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Infer(tc.set, tc.typ)
			assert.Equal(t, tc.labels, got.Labels)
			assert.Equal(t, tc.values, got.Values)
		})
	}
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil))

	m := Summarize([]float64{4, 1, 7})
	require.NotNil(t, m)
	assert.Equal(t, 12.0, m.Total)
	assert.Equal(t, 4.0, m.Average)
	assert.Equal(t, 1.0, m.Min)
	assert.Equal(t, 7.0, m.Max)
	assert.Equal(t, TrendUp, m.Trend)
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{name: "single", values: []float64{5}, want: TrendStable},
		{name: "up", values: []float64{100, 50, 102}, want: TrendUp},
		{name: "down", values: []float64{100, 98}, want: TrendDown},
		{name: "within one percent", values: []float64{100, 100.5}, want: TrendStable},
		{name: "from zero up", values: []float64{0, 1}, want: TrendUp},
		{name: "zero flat", values: []float64{0, 0}, want: TrendStable},
		{name: "negative base", values: []float64{-10, -5}, want: TrendUp},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TrendOf(tc.values))
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		row  rowset.Row
		cols []string
		want string
	}{
		{name: "one numeric one text", cols: []string{"region", "n"}, row: rowset.Row{"region": "eu", "n": 3}, want: "bar-chart"},
		{name: "two numeric one text", cols: []string{"region", "a", "b"}, row: rowset.Row{"region": "eu", "a": 1, "b": "2"}, want: "line-chart"},
		{name: "two numeric", cols: []string{"a", "b"}, row: rowset.Row{"a": 1.5, "b": json.Number("2")}, want: "scatter-plot"},
		{name: "nulls are neither", cols: []string{"a", "b"}, row: rowset.Row{"a": nil, "b": ""}, want: "bar-chart"},
		{name: "three numeric", cols: []string{"a", "b", "c"}, row: rowset.Row{"a": 1, "b": 2, "c": 3}, want: "bar-chart"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			set := rowset.Set{Columns: tc.cols, Rows: []rowset.Row{tc.row}}
			assert.Equal(t, tc.want, Suggest(set))
		})
	}

	assert.Equal(t, "", Suggest(rowset.Set{}))
}
