package store

import (
	"context"
	"errors"
	"time"

	"datalens/internal/platform/logger"
	chx "datalens/internal/platform/store/ch"
)

// chClient is the part of *ch.CH the adapter depends on
type chClient interface {
	Select(ctx context.Context, sql string, args ...any) ([]string, [][]any, error)
	Ping(ctx context.Context) error
	Close() error
}

var _ chClient = (*chx.CH)(nil)

// newCHAdapter wraps a clickhouse client as the store.Clickhouse seam
func newCHAdapter(c chClient, log logger.Logger, slowMs int) *clickhouseAdapter {
	return &clickhouseAdapter{inner: c, log: log, slowMs: slowMs}
}

// clickhouseAdapter logs slow and failed selects around the client
type clickhouseAdapter struct {
	inner  chClient
	log    logger.Logger
	slowMs int
}

var _ Clickhouse = (*clickhouseAdapter)(nil)

func (a *clickhouseAdapter) Select(ctx context.Context, sql string, args ...any) ([]string, [][]any, error) {
	start := time.Now()
	cols, vals, err := a.inner.Select(ctx, sql, args...)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		a.log.Warn().Err(err).Str("sql", sql).Dur("elapsed", elapsed).Msg("ch select failed")
	case a.slowMs > 0 && elapsed >= time.Duration(a.slowMs)*time.Millisecond:
		a.log.Info().Str("sql", sql).Dur("elapsed", elapsed).Int("rows", len(vals)).Msg("ch slow select")
	}
	return cols, vals, err
}

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// Ping verifies connectivity with ClickHouse
func (a *clickhouseAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.inner.Ping(ctx)
}
