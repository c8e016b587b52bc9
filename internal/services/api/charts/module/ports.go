package module

import "datalens/internal/services/api/charts/domain"

// Ports declares what charts needs injected from other modules
type Ports struct {
	Datasets domain.DatasetCatalog
}

// Exposed are the ports charts offers other modules
type Exposed struct {
	Charts domain.Lookup
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
