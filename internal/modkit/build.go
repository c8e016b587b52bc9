package modkit

import (
	"net/http"

	"datalens/internal/modkit/httpkit"
	str "datalens/internal/platform/strings"
)

// Built is the resolved option set a module starts from
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Mount is embedded by modules; it supplies Name and MountRoutes
type Mount struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
}

// NewMount binds a built module to the func that registers its routes
func NewMount(b Built, register func(httpkit.Router)) Mount {
	return Mount{name: b.Name, prefix: b.Prefix, mws: b.Mw, register: register}
}

// Name returns the module name, panicking when unset
func (m Mount) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the normalized route prefix
func (m Mount) Prefix() string { return str.MustPrefix(m.prefix) }

// MountRoutes registers the module under its prefix with its own middleware
func (m Mount) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		if len(m.mws) > 0 {
			rr.Use(m.mws...)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}
