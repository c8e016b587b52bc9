package store

import (
	"github.com/prometheus/client_golang/prometheus"

	"datalens/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithMetrics records postgres statement latency on reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) error {
		s.metrics = reg
		return nil
	}
}
