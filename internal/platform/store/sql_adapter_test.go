package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/platform/store/pg"
)

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

type fakePgxRows struct {
	pgx.Rows
	cols   []string
	n      int
	err    error
	closes int
}

func (r *fakePgxRows) Next() bool {
	if r.n == 0 {
		return false
	}
	r.n--
	return true
}
func (r *fakePgxRows) Scan(...any) error { return nil }
func (r *fakePgxRows) Err() error        { return r.err }
func (r *fakePgxRows) Close()            { r.closes++ }
func (r *fakePgxRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

type fakePgxRow struct{ err error }

func (r fakePgxRow) Scan(...any) error { return r.err }

type fakePgx struct {
	execErr  error
	queryErr error
	rows     *fakePgxRows
	rowErr   error
}

func (f *fakePgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("DELETE 1"), f.execErr
}
func (f *fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}
func (f *fakePgx) QueryRow(context.Context, string, ...any) pgx.Row { return fakePgxRow{err: f.rowErr} }

func newTraced(db pgxQuerier, slow time.Duration) (traced, *recTracer) {
	rec := &recTracer{}
	return traced{db: db, p: &pg.PG{Tracer: rec, Slow: slow}}, rec
}

func TestTraced_Exec(t *testing.T) {
	ctx := context.Background()
	q, rec := newTraced(&fakePgx{}, 0)

	tag, err := q.Exec(ctx, "delete from charts where id = $1", "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, tag.RowsAffected())
	require.Len(t, rec.events, 1)
	assert.Equal(t, []any{"c1"}, rec.events[0].Args)
	assert.False(t, rec.events[0].Slow)

	boom := errors.New("relation does not exist")
	q, rec = newTraced(&fakePgx{execErr: boom}, time.Nanosecond)
	_, err = q.Exec(ctx, "delete from nope")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, rec.events[0].Err, boom)
	assert.True(t, rec.events[0].Slow)
}

func TestTraced_QueryEmitsOnClose(t *testing.T) {
	ctx := context.Background()
	pgxRows := &fakePgxRows{cols: []string{"id", "name"}, n: 2, err: errors.New("late")}
	q, rec := newTraced(&fakePgx{rows: pgxRows}, 0)

	rs, err := q.Query(ctx, "select id, name from charts")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rs.Columns())
	for rs.Next() {
		require.NoError(t, rs.Scan())
	}
	assert.Empty(t, rec.events)

	rs.Close()
	rs.Close()
	assert.Equal(t, 2, pgxRows.closes)
	require.Len(t, rec.events, 1)
	assert.EqualError(t, rec.events[0].Err, "late")

	q, rec = newTraced(&fakePgx{queryErr: errors.New("syntax")}, 0)
	_, err = q.Query(ctx, "selec")
	assert.EqualError(t, err, "syntax")
	assert.Len(t, rec.events, 1)
}

func TestTraced_QueryRowNoRowsIsNotAFailure(t *testing.T) {
	q, rec := newTraced(&fakePgx{rowErr: pgx.ErrNoRows}, 0)

	err := q.QueryRow(context.Background(), "select 1 where false").Scan()
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.Len(t, rec.events, 1)
	assert.NoError(t, rec.events[0].Err)
}

func TestTraced_NoTracer(t *testing.T) {
	q := traced{db: &fakePgx{}, p: &pg.PG{}}
	_, err := q.Exec(context.Background(), "select 1")
	assert.NoError(t, err)
}

type fakeTx struct {
	pgx.Tx
	fakePgx
	committed   bool
	rolledBack  bool
	rollbackErr error
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f.fakePgx.Exec(ctx, sql, args...)
}
func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return f.fakePgx.Query(ctx, sql, args...)
}
func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.fakePgx.QueryRow(ctx, sql, args...)
}
func (f *fakeTx) Commit(context.Context) error { f.committed = true; return nil }
func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return f.rollbackErr
}

func TestRunTx(t *testing.T) {
	ctx := context.Background()
	rec := &recTracer{}
	p := &pg.PG{Tracer: rec}

	tx := &fakeTx{}
	err := runTx(ctx, tx, p, func(q RowQuerier) error {
		_, err := q.Exec(ctx, "insert into dashboards (id, name) values ($1, $2)", "d1", "Fleet")
		return err
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Len(t, rec.events, 1)

	boom := errors.New("widget missing")
	tx = &fakeTx{}
	err = runTx(ctx, tx, p, func(RowQuerier) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)

	tx = &fakeTx{rollbackErr: errors.New("conn lost")}
	err = runTx(ctx, tx, p, func(RowQuerier) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "conn lost")

	tx = &fakeTx{rollbackErr: pgx.ErrTxClosed}
	err = runTx(ctx, tx, p, func(RowQuerier) error { return boom })
	assert.Equal(t, boom, err)
}
