package store

import (
	"context"
	"fmt"
	"time"

	chx "datalens/internal/platform/store/ch"
	"datalens/internal/platform/store/pg"
)

// openPG opens pg and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var logTr, metricTr pg.QueryTracer
	if cfg.PG.LogSQL {
		logTr = pg.Tracer(s.Log)
	}
	if s.metrics != nil {
		metricTr = pg.Metrics(s.metrics)
	}
	tracer := pg.Tracers(logTr, metricTr)

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		Slow:     time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	// connection guardrails: ping the pool directly so boot probes stay out of the trace log
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)
	maxAttempts := cfg.PG.ConnectRetries
	if maxAttempts <= 0 {
		maxAttempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			if cfg.PG.Migrate {
				if err := pg.Migrate(ctx, p.Pool, s.Log); err != nil {
					p.Close()
					return nil, err
				}
			}
			a := newPGAdapter(p) // publish adapter only after the pool is healthy
			s.PG = a
			return a, nil
		}
		if ctx.Err() != nil {
			p.Close() // close the pool we opened
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", maxAttempts, lastErr)
}

// openCH opens the native clickhouse client; the first query dials
func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:         cfg.CH.URL,
		Role:        cfg.AppName,
		Tag:         cfg.CH.Tag,
		DialTimeout: cfg.CH.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	return newCHAdapter(c, s.Log, cfg.CH.SlowQueryMs), nil
}
