// Package module wires SQL Lab into the API using modkit
package module

import (
	"datalens/internal/core/rowset"
	modkit "datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"
	"datalens/internal/platform/net/middleware"
	sqllabhttp "datalens/internal/services/api/sqllab/http"
	sqllabsvc "datalens/internal/services/api/sqllab/service"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Mount
}

// New constructs a SQL Lab module, S3 export answers 503 without deps.Exports.
// SQLLAB_MAX_IN_FLIGHT caps concurrent executions, 0 leaves them unbounded
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	defaults := []modkit.Option{
		modkit.WithName("sqllab"),
		modkit.WithPrefix("/sqllab"),
		modkit.WithMiddlewares(middleware.Throttle(deps.Cfg.MayInt("SQLLAB_MAX_IN_FLIGHT", 0))),
	}
	b := modkit.Build(append(defaults, opts...)...)

	svc := sqllabsvc.New(deps.Analytics, deps.Exports, deps.Cfg.MayInt("ROW_CAP", rowset.MaxRows))
	return &Module{Mount: modkit.NewMount(b, func(r httpkit.Router) { sqllabhttp.Register(r, svc) })}
}

// Ports returns nil, SQL Lab exposes nothing to other modules
func (m *Module) Ports() any { return nil }
