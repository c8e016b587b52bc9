// Package domain holds DTOs for the chart gallery
package domain

import (
	"context"

	"datalens/internal/core/charttypes"
	"datalens/internal/core/querygen"
)

// TypesOutput is the filtered gallery
type TypesOutput struct {
	Types []charttypes.ChartType `json:"types"`
	Total int                    `json:"total" example:"15"`
}

// CategoriesOutput feeds the gallery and builder pickers
type CategoriesOutput struct {
	Categories []string          `json:"categories" example:"All charts,KPI,Basic,Advanced,Specialized"`
	Tags       []string          `json:"tags" example:"Popular,Basic"`
	Datasets   []string          `json:"datasets" example:"light_table,druid-test"`
	Metrics    []querygen.Metric `json:"metrics" example:"AVG,COUNT,MAX,MIN,SUM"`
}

// ServicePort defines the service contract for the gallery
type ServicePort interface {
	Types(ctx context.Context, q charttypes.Query) (TypesOutput, error)
	Categories(ctx context.Context) (CategoriesOutput, error)
}
