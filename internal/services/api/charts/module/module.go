// Package module wires charts into the API using modkit
package module

import (
	"datalens/internal/core/rowset"
	modkit "datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"
	chartshttp "datalens/internal/services/api/charts/http"
	chartsrepo "datalens/internal/services/api/charts/repo"
	chartssvc "datalens/internal/services/api/charts/service"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Mount
	ports Exposed
}

// New constructs a charts module
// inject Ports with modkit.WithPorts to restrict charts to configured datasets
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("charts"), modkit.WithPrefix("/charts")}, opts...)...)

	o := chartssvc.Options{RowCap: deps.Cfg.MayInt("ROW_CAP", rowset.MaxRows)}
	if p, ok := b.Ports.(Ports); ok {
		o.Datasets = p.Datasets
	}
	svc := chartssvc.New(deps.PG, chartsrepo.NewPG(), deps.Analytics, o)

	return &Module{
		Mount: modkit.NewMount(b, func(r httpkit.Router) { chartshttp.Register(r, svc) }),
		ports: Exposed{Charts: svc},
	}
}
