// Package module wires the gallery into the API using modkit
package module

import (
	"datalens/internal/core/charttypes"
	modkit "datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"
	galleryhttp "datalens/internal/services/api/gallery/http"
	gallerysvc "datalens/internal/services/api/gallery/service"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Mount
}

// New constructs a gallery module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("gallery"), modkit.WithPrefix("/gallery")}, opts...)...)

	svc := gallerysvc.New(deps.Cfg.MayCSV("DATASETS", charttypes.Datasets))
	return &Module{Mount: modkit.NewMount(b, func(r httpkit.Router) { galleryhttp.Register(r, svc) })}
}

// Ports returns nil, gallery exposes nothing to other modules
func (m *Module) Ports() any { return nil }
