// Package module wires dashboards into the API using modkit
package module

import (
	"datalens/internal/core/rowset"
	modkit "datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"
	dashboardshttp "datalens/internal/services/api/dashboards/http"
	dashboardsrepo "datalens/internal/services/api/dashboards/repo"
	dashboardssvc "datalens/internal/services/api/dashboards/service"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Mount
}

// New constructs a dashboards module
// Ports must be injected with modkit.WithPorts, widgets resolve through the charts lookup
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("dashboards"), modkit.WithPrefix("/dashboards")}, opts...)...)

	p, _ := b.Ports.(Ports)
	svc := dashboardssvc.New(deps.PG, dashboardsrepo.NewPG(), p.Charts, deps.Analytics, deps.Cfg.MayInt("ROW_CAP", rowset.MaxRows))
	return &Module{Mount: modkit.NewMount(b, func(r httpkit.Router) { dashboardshttp.Register(r, svc) })}
}
