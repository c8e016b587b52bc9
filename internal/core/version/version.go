// Package version reports build information for datalens binaries
package version

import "runtime/debug"

// BuildInfo holds version information about a binary
type BuildInfo struct {
	Service   string `json:"service" example:"datalens-api"`
	Version   string `json:"version" example:"v0.3.0"`
	Commit    string `json:"commit" example:"abcd123"`
	Date      string `json:"date" example:"2025-09-02"`
	GoVersion string `json:"go_version" example:"go1.24.2"`
}

// Service names
const (
	ServiceAPI = "datalens-api"
	ServiceCLI = "datalens"
)

// Info returns build information for the API server
func Info() BuildInfo { return For(ServiceAPI) }

// For returns build information stamped with service
// set at build time with
// -ldflags "-X 'datalens/internal/core/version.version=v0.3.0' -X 'datalens/internal/core/version.commit=abcd'"
func For(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	if info, ok := debug.ReadBuildInfo(); ok {
		bi.GoVersion = info.GoVersion
		if bi.Commit == "none" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					bi.Commit = s.Value
				}
			}
		}
	}
	return bi
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
