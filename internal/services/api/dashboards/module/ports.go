package module

import "datalens/internal/services/api/dashboards/domain"

// Ports declares what dashboards needs injected from other modules
type Ports struct {
	Charts domain.ChartSource
}

// Ports returns nil, dashboards exposes nothing to other modules
func (m *Module) Ports() any { return nil }
