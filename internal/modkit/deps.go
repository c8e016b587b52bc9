// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/prometheus/client_golang/prometheus"

	"datalens/internal/adapters/analytics"
	"datalens/internal/adapters/exportstore"
	"datalens/internal/modkit/repokit"
	"datalens/internal/platform/config"
	"datalens/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner

	// Analytics runs chart and SQL Lab queries
	Analytics analytics.Executor

	// Exports is nil when no bucket is configured
	Exports exportstore.Uploader

	// Metrics is served at /meta/metrics when set
	Metrics prometheus.Gatherer
}
