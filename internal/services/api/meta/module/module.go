// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"datalens/internal/core/version"
	modkit "datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"

	metahttp "datalens/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Mount
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	md := metahttp.Deps{
		ServiceName: version.ServiceAPI,
		StartedAt:   time.Now(),
		Probes: []metahttp.Probe{
			{Name: "pg", Target: deps.PG},
			{Name: "analytics", Target: deps.Analytics},
		},
		ProbeTimeout: deps.Cfg.MayDuration("READY_TIMEOUT", 2*time.Second),
		Metrics:      deps.Metrics,
	}
	return &Module{Mount: modkit.NewMount(b, func(r httpkit.Router) { metahttp.Register(r, md) })}
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
