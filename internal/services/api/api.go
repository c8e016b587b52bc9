// Package api provides the HTTP API for the application
package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"datalens/internal/adapters/analytics"
	"datalens/internal/adapters/exportstore"
	"datalens/internal/platform/config"
	"datalens/internal/platform/logger"
	phttp "datalens/internal/platform/net/http"
	"datalens/internal/platform/store"

	"datalens/internal/modkit"
	"datalens/internal/modkit/httpkit"
	"datalens/internal/modkit/module"
	"datalens/internal/modkit/swaggerkit"

	chartsmod "datalens/internal/services/api/charts/module"
	dashboardsmod "datalens/internal/services/api/dashboards/module"
	datasetsmod "datalens/internal/services/api/datasets/module"
	gallerymod "datalens/internal/services/api/gallery/module"
	metamod "datalens/internal/services/api/meta/module"
	sqllabmod "datalens/internal/services/api/sqllab/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Analytics      analytics.Executor
	Exports        exportstore.Uploader
	Metrics        prometheus.Gatherer
	Stack          httpkit.StackOptions
	Docs           swaggerkit.Options
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:       opt.Config,
		PG:        opt.Store.PG,
		Analytics: opt.Analytics,
		Exports:   opt.Exports,
		Metrics:   opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// datasets owns the configured catalog, charts validates against it
	datasets := datasetsmod.New(deps)
	charts := chartsmod.New(deps, modkit.WithPorts(chartsmod.Ports{
		Datasets: module.MustPortsOf[datasetsmod.Ports](datasets).Datasets,
	}))

	// dashboards resolve widgets through the charts lookup
	dashboards := dashboardsmod.New(deps, modkit.WithPorts(dashboardsmod.Ports{
		Charts: module.MustPortsOf[chartsmod.Exposed](charts).Charts,
	}))

	mods := []module.Module{
		metamod.New(deps),
		datasets,
		charts,
		gallerymod.New(deps),
		sqllabmod.New(deps),
		dashboards,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.Docs)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
