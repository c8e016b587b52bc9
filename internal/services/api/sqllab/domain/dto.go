// Package domain holds DTOs for SQL Lab
package domain

import (
	"context"

	"datalens/internal/adapters/exportstore"
	"datalens/internal/core/chartdata"
	"datalens/internal/core/rowset"
)

// PreviewRows is how many rows execute echoes back
const PreviewRows = 5

// QueryInput is a single read only statement
type QueryInput struct {
	SQL string `json:"sql" validate:"required" example:"SELECT __time, region FROM \"light_table\" LIMIT 10"`
}

// ExecuteOutput is the SQL Lab result panel
type ExecuteOutput struct {
	SQL       string       `json:"sql"`
	Columns   []string     `json:"columns"`
	Preview   []rowset.Row `json:"preview"`
	Total     int          `json:"total" example:"42"`
	Truncated bool         `json:"truncated"`
	// Suggested is empty when the query returned no rows
	Suggested string         `json:"suggested_chart_type,omitempty" example:"bar-chart"`
	Chart     chartdata.Data `json:"chart"`
}

// Export is a rendered CSV document
type Export struct {
	FileName string
	Body     []byte
	Rows     int
}

// UploadOutput points at an export in the bucket
type UploadOutput struct {
	exportstore.Object
	FileName string `json:"file_name" example:"query-results-2025-01-31.csv"`
	Rows     int    `json:"rows" example:"42"`
}

// ServicePort defines the service contract for SQL Lab
type ServicePort interface {
	Execute(ctx context.Context, in QueryInput) (ExecuteOutput, error)
	Export(ctx context.Context, in QueryInput) (Export, error)
	Upload(ctx context.Context, in QueryInput) (UploadOutput, error)
}
