package domain

import (
	"context"

	chartsdomain "datalens/internal/services/api/charts/domain"
)

// ServicePort defines the service contract for dashboards
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (Dashboard, error)
	List(ctx context.Context) ([]Dashboard, error)
	Get(ctx context.Context, id string) (Dashboard, error)
	Delete(ctx context.Context, id string) error
	Render(ctx context.Context, id string) (RenderOutput, error)
	// Stream executes widgets in order and hands each to emit as soon as it is ready
	Stream(ctx context.Context, id string, emit func(Widget) error) (Dashboard, error)
}

// ChartSource resolves widget ids into saved charts
type ChartSource = chartsdomain.Lookup
