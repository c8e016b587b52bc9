// Package module wires datasets into the API using modkit
package module

import (
	"datalens/internal/core/charttypes"
	modkit "datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"
	datasetshttp "datalens/internal/services/api/datasets/http"
	datasetssvc "datalens/internal/services/api/datasets/service"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Mount
	ports Ports
}

// New constructs a datasets module; the list comes from DATASETS under the api config
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("datasets"), modkit.WithPrefix("/datasets")}, opts...)...)

	svc := datasetssvc.New(deps.Analytics, deps.Cfg.MayCSV("DATASETS", charttypes.Datasets))
	return &Module{
		Mount: modkit.NewMount(b, func(r httpkit.Router) { datasetshttp.Register(r, svc) }),
		ports: Ports{Datasets: svc},
	}
}
