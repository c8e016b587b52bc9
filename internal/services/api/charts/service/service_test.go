package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	"datalens/internal/modkit/repokit"
	perr "datalens/internal/platform/errors"
	"datalens/internal/services/api/charts/domain"
	"datalens/internal/services/api/charts/repo"
)

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (t nopTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(t) }

type memRepo struct {
	rows      []repo.RowChart
	listFrom  time.Time
	listTo    time.Time
	insertErr error
	manyIDs   []string
}

func (m *memRepo) Insert(_ context.Context, c repo.RowChart) (time.Time, error) {
	if m.insertErr != nil {
		return time.Time{}, m.insertErr
	}
	m.rows = append(m.rows, c)
	return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC), nil
}

func (m *memRepo) Get(_ context.Context, id string) (repo.RowChart, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return repo.RowChart{}, perr.NotFoundf("chart %s not found", id)
}

func (m *memRepo) GetMany(_ context.Context, ids []string) ([]repo.RowChart, error) {
	m.manyIDs = ids
	return m.rows, nil
}

func (m *memRepo) List(_ context.Context, from, to time.Time) ([]repo.RowChart, error) {
	m.listFrom, m.listTo = from, to
	return m.rows, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeExec struct {
	set  rowset.Set
	err  error
	last string
}

func (f *fakeExec) Query(_ context.Context, sql string) (rowset.Set, error) {
	f.last = sql
	return f.set, f.err
}

func (f *fakeExec) Columns(context.Context, string) ([]querygen.Column, error) { return nil, nil }

type datasets []string

func (d datasets) Known(name string) bool {
	for _, x := range d {
		if x == name {
			return true
		}
	}
	return false
}

func newSvc(t *testing.T, r *memRepo, ex *fakeExec, o Options) *Svc {
	t.Helper()
	s := New(nopTx{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r }), ex, o)
	s.newID = func() uuid.UUID { return uuid.MustParse("6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11") }
	return s
}

func regionDraft() querygen.Draft {
	return querygen.Draft{
		Name:       "Devices by region",
		Dataset:    "light_table",
		Dimensions: []string{"region"},
		Metrics:    []querygen.Metric{querygen.MetricCount},
	}
}

func TestBuild(t *testing.T) {
	s := newSvc(t, &memRepo{}, &fakeExec{}, Options{})
	out, err := s.Build(context.Background(), regionDraft())
	require.NoError(t, err)
	assert.Equal(t, `SELECT "region", COUNT(*) as count_total FROM "light_table" GROUP BY "region" LIMIT 10000`, out.SQL)

	_, err = s.Build(context.Background(), querygen.Draft{})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestValidate(t *testing.T) {
	s := newSvc(t, &memRepo{}, &fakeExec{}, Options{})

	out, err := s.Validate(context.Background(), regionDraft())
	require.NoError(t, err)
	assert.True(t, out.OK)

	d := regionDraft()
	d.Metrics = nil
	out, err = s.Validate(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, "metrics", out.Field)
	assert.Equal(t, "at least one metric is required", out.Reason)
}

func TestPreview_TruncatesAndProjects(t *testing.T) {
	rows := make([]rowset.Row, 0, 5)
	for i, r := range []string{"eu", "us", "apac", "latam", "mea"} {
		rows = append(rows, rowset.Row{"region": r, "count_total": float64(i + 1)})
	}
	ex := &fakeExec{set: rowset.Set{Columns: []string{"region", "count_total"}, Rows: rows}}
	s := newSvc(t, &memRepo{}, ex, Options{RowCap: 3, Datasets: datasets{"light_table"}})

	out, err := s.Preview(context.Background(), regionDraft())
	require.NoError(t, err)
	assert.Equal(t, ex.last, out.SQL)
	assert.Equal(t, 5, out.Total)
	assert.True(t, out.Truncated)
	assert.Len(t, out.Rows, 3)
	assert.Equal(t, []string{"eu", "us", "apac"}, out.Chart.Labels)
	assert.Equal(t, []float64{1, 2, 3}, out.Chart.Values)
}

func TestPreview_UnknownDataset(t *testing.T) {
	ex := &fakeExec{}
	s := newSvc(t, &memRepo{}, ex, Options{Datasets: datasets{"druid-test"}})
	_, err := s.Preview(context.Background(), regionDraft())
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	assert.Empty(t, ex.last, "unknown datasets never reach the backend")
}

func TestPreview_BackendError(t *testing.T) {
	s := newSvc(t, &memRepo{}, &fakeExec{err: perr.Upstreamf("druid down")}, Options{})
	_, err := s.Preview(context.Background(), regionDraft())
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUpstream))
}

func TestSave(t *testing.T) {
	r := &memRepo{}
	s := newSvc(t, r, &fakeExec{}, Options{})

	d := regionDraft()
	d.Name = "  Devices by region "
	d.ChartType = "Bar"
	c, err := s.Save(context.Background(), domain.SaveInput{Draft: d})
	require.NoError(t, err)

	assert.Equal(t, "6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11", c.ID)
	assert.Equal(t, "Devices by region", c.Name)
	assert.Equal(t, "bar-chart", c.ChartType)
	assert.Equal(t, domain.DefaultService, c.Service)
	assert.True(t, strings.HasPrefix(c.Query, `SELECT "region"`))
	assert.Equal(t, []string{"region"}, c.Draft.Dimensions)
	assert.False(t, c.CreatedAt.IsZero())
	require.Len(t, r.rows, 1)
	assert.Contains(t, r.rows[0].Draft, `"dataset":"light_table"`)
}

func TestSave_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*querygen.Draft)
		field string
	}{
		{"no name", func(d *querygen.Draft) { d.Name = "   " }, "name"},
		{"no metric", func(d *querygen.Draft) { d.Metrics = nil }, "metrics"},
		{"unbound sum", func(d *querygen.Draft) { d.Metrics = []querygen.Metric{querygen.MetricSum} }, "metric_columns"},
		{"unknown chart type", func(d *querygen.Draft) { d.ChartType = "sankey" }, "chart_type"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := &memRepo{}
			s := newSvc(t, r, &fakeExec{}, Options{})
			d := regionDraft()
			tc.mut(&d)
			_, err := s.Save(context.Background(), domain.SaveInput{Draft: d})
			require.Error(t, err)
			assert.Equal(t, tc.field, perr.WireFrom(err).Field)
			assert.Empty(t, r.rows)
		})
	}
}

func TestList_Filters(t *testing.T) {
	r := &memRepo{rows: []repo.RowChart{
		{ID: "1", Name: "Temperature over time", ChartType: "line-chart", Draft: `{"dataset":"light_table"}`},
		{ID: "2", Name: "Devices by REGION", ChartType: "bar-chart"},
		{ID: "3", Name: "Share", ChartType: "pie-chart"},
	}}
	s := newSvc(t, r, &fakeExec{}, Options{})
	ctx := context.Background()

	ids := func(cs []domain.Chart) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	got, err := s.List(ctx, domain.ListQuery{Q: "region"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got))

	got, err = s.List(ctx, domain.ListQuery{Q: "chart"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got), "q also matches the chart type")

	got, err = s.List(ctx, domain.ListQuery{Types: []string{"pie", "line-chart"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(got))
	assert.Equal(t, "light_table", got[0].Draft.Dataset)

	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err = s.List(ctx, domain.ListQuery{From: day, To: day})
	require.NoError(t, err)
	assert.Equal(t, day, r.listFrom)
	assert.Equal(t, day.AddDate(0, 0, 1), r.listTo, "to is inclusive")

	_, err = s.List(ctx, domain.ListQuery{From: day.AddDate(0, 0, 2), To: day})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestGetDelete(t *testing.T) {
	id := "6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11"
	r := &memRepo{rows: []repo.RowChart{{ID: id, Name: "x", ChartType: "bar-chart"}}}
	s := newSvc(t, r, &fakeExec{}, Options{})
	ctx := context.Background()

	_, err := s.Get(ctx, "not-a-uuid")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))

	c, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "x", c.Name)

	require.NoError(t, s.Delete(ctx, id))
	err = s.Delete(ctx, id)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestMany_SkipsMalformedIDs(t *testing.T) {
	r := &memRepo{rows: []repo.RowChart{{ID: "6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11", Name: "a", Draft: `{"dataset":"light_table"}`}}}
	s := newSvc(t, r, &fakeExec{}, Options{})

	got, err := s.Many(context.Background(), []string{"nope", "6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11"})
	require.NoError(t, err)
	assert.Equal(t, []string{"6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11"}, r.manyIDs)
	require.Len(t, got, 1)
	assert.Equal(t, "light_table", got[0].Draft.Dataset)
}
