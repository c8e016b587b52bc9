package module

// Catalog is the cross module view of the configured datasets
type Catalog interface {
	Known(name string) bool
}

// Ports are the ports datasets exposes to other modules
type Ports struct {
	Datasets Catalog
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
