package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

type fakeCH struct {
	cols    []string
	vals    [][]any
	err     error
	pingErr error
	closed  bool
	sql     string
	args    []any
}

func (f *fakeCH) Select(_ context.Context, sql string, args ...any) ([]string, [][]any, error) {
	f.sql, f.args = sql, args
	return f.cols, f.vals, f.err
}
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

func TestCHAdapter_SelectDelegates(t *testing.T) {
	t.Parallel()

	f := &fakeCH{cols: []string{"a"}, vals: [][]any{{uint8(1)}}}
	a := newCHAdapter(f, zerolog.Nop(), 1)

	cols, vals, err := a.Select(context.Background(), "SELECT a FROM t WHERE b = ?", 7)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if !reflect.DeepEqual(cols, f.cols) || !reflect.DeepEqual(vals, f.vals) {
		t.Fatalf("Select = %v %v", cols, vals)
	}
	if f.sql != "SELECT a FROM t WHERE b = ?" || len(f.args) != 1 {
		t.Fatalf("args not forwarded: %q %v", f.sql, f.args)
	}
}

func TestCHAdapter_SelectError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	a := newCHAdapter(&fakeCH{err: boom}, zerolog.Nop(), 0)
	if _, _, err := a.Select(context.Background(), "SELECT 1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v want boom", err)
	}
}

func TestCHAdapter_PingAndClose(t *testing.T) {
	t.Parallel()

	f := &fakeCH{pingErr: errors.New("down")}
	a := newCHAdapter(f, zerolog.Nop(), 0)
	if err := a.Ping(context.Background()); err == nil {
		t.Fatalf("Ping should surface client error")
	}
	if err := a.Close(); err != nil || !f.closed {
		t.Fatalf("Close not delegated")
	}

	var nilAdapter *clickhouseAdapter
	if err := nilAdapter.Ping(context.Background()); err == nil {
		t.Fatalf("nil adapter Ping should error")
	}
}

func TestGuard_CH_PingFails(t *testing.T) {
	t.Parallel()

	s := &Store{CH: newCHAdapter(&fakeCH{pingErr: errors.New("down")}, zerolog.Nop(), 0)}
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("Guard should report ch ping failure")
	}
}
