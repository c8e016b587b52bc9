package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"datalens/internal/platform/net/middleware"
)

// StackOptions tunes the api middleware stack
type StackOptions struct {
	CORSOrigins []string
	SlowRequest time.Duration
	// Timeout bounds every request except websocket upgrades, 0 means 30s
	Timeout time.Duration
	// MaxInFlight caps concurrent requests, 0 disables
	MaxInFlight int
}

// CommonStack returns the baseline middleware slice for the api scope
func CommonStack(opt StackOptions) []func(http.Handler) http.Handler {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RequestScope(),
		middleware.RealIP(),

		// observability wraps recovery so panics are logged as 500s
		middleware.AccessLog(middleware.AccessLogOptions{Slow: opt.SlowRequest}),
		middleware.RecoverJSON,

		// upstream identity
		middleware.Bearer(),

		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Throttle(opt.MaxInFlight),
		middleware.Timeout(timeout),
	}
}
