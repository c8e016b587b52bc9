package service

import (
	"context"
	"testing"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	perr "datalens/internal/platform/errors"
)

type fakeExec struct {
	asked []string
}

func (f *fakeExec) Query(context.Context, string) (rowset.Set, error) { return rowset.Set{}, nil }

func (f *fakeExec) Columns(_ context.Context, dataset string) ([]querygen.Column, error) {
	f.asked = append(f.asked, dataset)
	return querygen.ClassifyAll([]string{"__time", "region"}), nil
}

func TestNew_CleansList(t *testing.T) {
	s := New(&fakeExec{}, []string{" light_table ", "", "druid-test", "light_table"})
	got, _ := s.List(context.Background())
	if len(got.Datasets) != 2 || got.Datasets[0] != "light_table" || got.Datasets[1] != "druid-test" {
		t.Fatalf("unexpected list %v", got.Datasets)
	}
}

func TestColumns(t *testing.T) {
	ex := &fakeExec{}
	s := New(ex, []string{"light_table"})

	out, err := s.Columns(context.Background(), "light_table")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if out.Dataset != "light_table" || len(out.Columns) != 2 || out.Columns[0].Type != querygen.ColumnTime {
		t.Fatalf("unexpected columns %+v", out)
	}

	_, err = s.Columns(context.Background(), "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if len(ex.asked) != 1 {
		t.Fatalf("unknown datasets must not reach the backend, asked=%v", ex.asked)
	}
}

func TestNew_PanicsOnNilExecutor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(nil, nil)
}
