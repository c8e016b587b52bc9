// Package module resolves ports across modkit modules during bootstrap
package module

import "datalens/internal/modkit"

// Module is the modkit module contract
type Module = modkit.Module
