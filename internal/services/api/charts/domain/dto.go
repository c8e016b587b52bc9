// Package domain holds DTOs for chart http and service contracts
package domain

import (
	"time"

	"datalens/internal/core/chartdata"
	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
)

// DefaultService is the analytics service charts are saved against
const DefaultService = "iot-analytics"

// BuildOutput is the SQL generated for a draft
type BuildOutput struct {
	SQL string `json:"sql" example:"SELECT \"region\", COUNT(*) as count_total FROM \"light_table\" GROUP BY \"region\" LIMIT 10000"`
}

// ValidateOutput reports whether a draft can be saved
type ValidateOutput struct {
	OK     bool   `json:"ok" example:"false"`
	Field  string `json:"field,omitempty" example:"metrics"`
	Reason string `json:"reason,omitempty" example:"at least one metric is required"`
}

// PreviewOutput is the executed draft projected for a chart widget
type PreviewOutput struct {
	SQL       string         `json:"sql"`
	Columns   []string       `json:"columns"`
	Rows      []rowset.Row   `json:"rows"`
	Total     int            `json:"total" example:"42"`
	Truncated bool           `json:"truncated" example:"false"`
	Chart     chartdata.Data `json:"chart"`
}

// SaveInput persists a complete draft
type SaveInput struct {
	Draft   querygen.Draft `json:"draft"`
	Service string         `json:"service,omitempty" validate:"omitempty,oneof=onboarding iot-analytics auth" example:"iot-analytics"`
}

// Chart is a saved chart
type Chart struct {
	ID        string         `json:"id" example:"6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11"`
	Name      string         `json:"name" example:"Devices by region"`
	ChartType string         `json:"chart_type" example:"bar-chart"`
	Dataset   string         `json:"dataset" example:"light_table"`
	Service   string         `json:"service" example:"iot-analytics"`
	Query     string         `json:"query"`
	Draft     querygen.Draft `json:"draft"`
	CreatedAt time.Time      `json:"created_at" example:"2025-03-04T05:06:07Z"`
}

// ListQuery filters saved charts
// Q matches the name or chart type, Types is an any-match, From and To are inclusive days
type ListQuery struct {
	Q     string
	Types []string
	From  time.Time
	To    time.Time
}
