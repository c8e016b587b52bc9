package domain

import "context"

// ServicePort defines the service contract for datasets
type ServicePort interface {
	List(ctx context.Context) (ListOutput, error)
	Columns(ctx context.Context, dataset string) (ColumnsOutput, error)
}
