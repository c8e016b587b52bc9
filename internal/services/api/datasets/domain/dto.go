// Package domain holds DTOs for dataset http and service contracts
package domain

import "datalens/internal/core/querygen"

// ListOutput is the configured dataset list
type ListOutput struct {
	Datasets []string `json:"datasets" example:"light_table,druid-test"`
}

// ColumnsOutput is the typed column listing of one dataset
type ColumnsOutput struct {
	Dataset string            `json:"dataset" example:"light_table"`
	Columns []querygen.Column `json:"columns"`
}
