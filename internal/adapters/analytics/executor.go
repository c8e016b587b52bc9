// Package analytics runs generated SQL against an analytics backend
package analytics

import (
	"context"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
)

// Executor runs SQL and lists dataset columns
// implementations are safe for concurrent use
type Executor interface {
	Query(ctx context.Context, sql string) (rowset.Set, error)
	Columns(ctx context.Context, dataset string) ([]querygen.Column, error)
}

// Pinger is implemented by executors that can report readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names accepted by configuration
const (
	BackendDruid      = "druid"
	BackendClickhouse = "clickhouse"
)
