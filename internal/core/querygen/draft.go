package querygen

import (
	"slices"

	perr "datalens/internal/platform/errors"
)

// Metric is an aggregate function name
type Metric string

// Supported metrics
const (
	MetricAvg   Metric = "AVG"
	MetricCount Metric = "COUNT"
	MetricMax   Metric = "MAX"
	MetricMin   Metric = "MIN"
	MetricSum   Metric = "SUM"
)

// Metrics lists the supported aggregates in display order
var Metrics = []Metric{MetricAvg, MetricCount, MetricMax, MetricMin, MetricSum}

// Valid reports whether m is a supported aggregate
func (m Metric) Valid() bool { return slices.Contains(Metrics, m) }

// SortMode picks the ORDER BY target when sorting is on
type SortMode string

const (
	// SortGroup orders by the x-axis or first dimension ascending
	SortGroup SortMode = "group"
	// SortMetric orders by the first metric alias descending
	SortMetric SortMode = "metric"
)

// DefaultRowLimit is used when a draft carries no positive limit
const DefaultRowLimit = 10000

// Draft is the mutable chart builder state
type Draft struct {
	Name          string            `json:"name" yaml:"name"`
	Dataset       string            `json:"dataset" yaml:"dataset"`
	ChartType     string            `json:"chart_type,omitempty" yaml:"chart_type,omitempty"`
	XAxis         string            `json:"x_axis,omitempty" yaml:"x_axis,omitempty"`
	Dimensions    []string          `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Metrics       []Metric          `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	MetricColumns map[Metric]string `json:"metric_columns,omitempty" yaml:"metric_columns,omitempty"`
	Filters       []string          `json:"filters,omitempty" yaml:"filters,omitempty"`
	RowLimit      int               `json:"row_limit,omitempty" yaml:"row_limit,omitempty"`
	SortBy        bool              `json:"sort_by,omitempty" yaml:"sort_by,omitempty"`
	SortMode      SortMode          `json:"sort_mode,omitempty" yaml:"sort_mode,omitempty"`

	// Columns is the typed listing of the dataset, optional
	Columns []Column `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// Slot names a drop target in the builder
type Slot string

// Drop targets
const (
	SlotXAxis      Slot = "xaxis"
	SlotDimensions Slot = "dimensions"
	SlotFilters    Slot = "filters"
)

// Clone returns a deep copy so callers can mutate freely
func (d Draft) Clone() Draft {
	c := d
	c.Dimensions = slices.Clone(d.Dimensions)
	c.Metrics = slices.Clone(d.Metrics)
	c.Filters = slices.Clone(d.Filters)
	c.Columns = slices.Clone(d.Columns)
	if d.MetricColumns != nil {
		c.MetricColumns = make(map[Metric]string, len(d.MetricColumns))
		for k, v := range d.MetricColumns {
			c.MetricColumns[k] = v
		}
	}
	return c
}

// defaultColumn is the binding a freshly added metric receives
func (d *Draft) defaultColumn() string {
	switch {
	case d.XAxis != "":
		return d.XAxis
	case len(d.Dimensions) > 0:
		return d.Dimensions[0]
	case len(d.Columns) > 0:
		return d.Columns[0].Name
	default:
		return "id"
	}
}

// ToggleMetric adds m with a default binding or removes it and its binding
func (d *Draft) ToggleMetric(m Metric) {
	if i := slices.Index(d.Metrics, m); i >= 0 {
		d.Metrics = slices.Delete(d.Metrics, i, i+1)
		delete(d.MetricColumns, m)
		return
	}
	if d.MetricColumns == nil {
		d.MetricColumns = map[Metric]string{}
	}
	d.MetricColumns[m] = d.defaultColumn()
	d.Metrics = append(d.Metrics, m)
}

// BindMetric sets the column a metric aggregates over
func (d *Draft) BindMetric(m Metric, column string) {
	if d.MetricColumns == nil {
		d.MetricColumns = map[Metric]string{}
	}
	d.MetricColumns[m] = column
}

// ToggleDimension adds or removes a dimension column
func (d *Draft) ToggleDimension(column string) { d.Dimensions = toggle(d.Dimensions, column) }

// ToggleFilter adds or removes a not-null filter column
func (d *Draft) ToggleFilter(column string) { d.Filters = toggle(d.Filters, column) }

// SetXAxis replaces the x-axis column, empty clears it
func (d *Draft) SetXAxis(column string) { d.XAxis = column }

// Drop places column into a slot without creating duplicates
func (d *Draft) Drop(slot Slot, column string) error {
	if column == "" {
		return perr.InvalidArgf("drop needs a column")
	}
	switch slot {
	case SlotXAxis:
		d.XAxis = column
	case SlotDimensions:
		if !slices.Contains(d.Dimensions, column) {
			d.Dimensions = append(d.Dimensions, column)
		}
	case SlotFilters:
		if !slices.Contains(d.Filters, column) {
			d.Filters = append(d.Filters, column)
		}
	default:
		return perr.InvalidArgf("unknown slot %q", slot)
	}
	return nil
}

// ChangeDataset switches the dataset and clears everything tied to the old one
// the x-axis survives like it does in the builder page
func (d *Draft) ChangeDataset(dataset string) {
	d.Dataset = dataset
	d.Columns = nil
	d.Metrics = nil
	d.MetricColumns = nil
	d.Dimensions = nil
	d.Filters = nil
}

// CanCreate reports whether the draft is complete enough to save
// the returned error names the first missing piece
func (d Draft) CanCreate() error {
	if d.Name == "" {
		return perr.WithField(perr.InvalidArgf("chart name is required"), "name")
	}
	if len(d.Metrics) == 0 {
		return perr.WithField(perr.InvalidArgf("at least one metric is required"), "metrics")
	}
	for _, m := range d.Metrics {
		if m != MetricCount && d.MetricColumns[m] == "" {
			return perr.WithField(perr.InvalidArgf("metric %s needs a column", m), "metric_columns")
		}
	}
	return nil
}

func toggle(in []string, v string) []string {
	if i := slices.Index(in, v); i >= 0 {
		return slices.Delete(in, i, i+1)
	}
	return append(in, v)
}
