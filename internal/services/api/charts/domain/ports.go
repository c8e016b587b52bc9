package domain

import (
	"context"

	"datalens/internal/core/querygen"
)

// ServicePort defines the service contract for charts
type ServicePort interface {
	Build(ctx context.Context, d querygen.Draft) (BuildOutput, error)
	Validate(ctx context.Context, d querygen.Draft) (ValidateOutput, error)
	Preview(ctx context.Context, d querygen.Draft) (PreviewOutput, error)
	Save(ctx context.Context, in SaveInput) (Chart, error)
	List(ctx context.Context, q ListQuery) ([]Chart, error)
	Get(ctx context.Context, id string) (Chart, error)
	Delete(ctx context.Context, id string) error
}

// DatasetCatalog reports whether a dataset is configured
type DatasetCatalog interface {
	Known(name string) bool
}

// Lookup resolves saved charts by id for other modules
type Lookup interface {
	Many(ctx context.Context, ids []string) ([]Chart, error)
}
