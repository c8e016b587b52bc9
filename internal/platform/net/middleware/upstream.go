package middleware

import (
	"net/http"
	"strings"

	"datalens/internal/platform/logger"
	pnet "datalens/internal/platform/net"
)

// Bearer copies an Authorization bearer token onto the context so
// outbound calls can forward the caller's identity; requests without one pass through
func Bearer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerToken(r.Header.Get("Authorization")); tok != "" {
				r = r.WithContext(pnet.WithBearer(r.Context(), tok))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestScope tags the request logger with the chi request id
// it must run after RequestID
func RequestScope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := pnet.RequestID(r.Context()); id != "" {
				r = r.WithContext(logger.WithRequest(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(authz string) string {
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authz[len(prefix):])
}
