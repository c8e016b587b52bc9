// Package service contains chart workflows
package service

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"datalens/internal/adapters/analytics"
	"datalens/internal/core/chartdata"
	"datalens/internal/core/charttypes"
	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	"datalens/internal/modkit/repokit"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/logger"
	"datalens/internal/services/api/charts/domain"
	"datalens/internal/services/api/charts/repo"
)

// DefaultChartType is used when a saved draft names no chart type
const DefaultChartType = "bar-chart"

// Service defines the service contract for charts
type Service interface{ domain.ServicePort }

// Options configure the charts service
type Options struct {
	// RowCap bounds preview rows, rowset.MaxRows when zero
	RowCap int
	// Datasets limits preview and save to configured datasets, nil allows all
	Datasets domain.DatasetCatalog
}

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
	exec analytics.Executor
	opts Options

	now   func() time.Time
	newID func() uuid.UUID
}

// New creates a new charts service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], exec analytics.Executor, o Options) *Svc {
	if db == nil {
		panic("charts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("charts.Service requires a non nil Repo binder")
	}
	if exec == nil {
		panic("charts.Service requires a non nil Executor")
	}
	if o.RowCap <= 0 || o.RowCap > rowset.MaxRows {
		o.RowCap = rowset.MaxRows
	}
	return &Svc{
		Repo:  binder.Bind(db),
		exec:  exec,
		opts:  o,
		now:   time.Now,
		newID: uuid.New,
	}
}

// Build renders the draft's SQL
func (s *Svc) Build(_ context.Context, d querygen.Draft) (domain.BuildOutput, error) {
	sql, err := querygen.Build(d)
	if err != nil {
		return domain.BuildOutput{}, err
	}
	return domain.BuildOutput{SQL: sql}, nil
}

// Validate reports the first missing piece of a draft, it never fails the request
func (s *Svc) Validate(_ context.Context, d querygen.Draft) (domain.ValidateOutput, error) {
	if err := d.CanCreate(); err != nil {
		w := perr.WireFrom(err)
		return domain.ValidateOutput{OK: false, Field: w.Field, Reason: w.Message}, nil
	}
	return domain.ValidateOutput{OK: true}, nil
}

// Preview builds and executes the draft then projects the rows for a chart
func (s *Svc) Preview(ctx context.Context, d querygen.Draft) (domain.PreviewOutput, error) {
	if err := s.checkDataset(d.Dataset); err != nil {
		return domain.PreviewOutput{}, err
	}
	sql, err := querygen.Build(d)
	if err != nil {
		return domain.PreviewOutput{}, err
	}
	set, err := s.exec.Query(ctx, sql)
	if err != nil {
		return domain.PreviewOutput{}, err
	}
	total := set.Len()
	capped, truncated := set.Truncate(s.opts.RowCap)
	if truncated {
		logger.C(ctx).Info().Int("rows", total).Int("cap", s.opts.RowCap).Str("dataset", d.Dataset).Msg("preview truncated")
	}
	return domain.PreviewOutput{
		SQL:       sql,
		Columns:   capped.Columns,
		Rows:      nonNilRows(capped.Rows),
		Total:     total,
		Truncated: truncated,
		Chart:     chartdata.FromDraft(capped, d),
	}, nil
}

// Save persists a complete draft with its generated SQL
func (s *Svc) Save(ctx context.Context, in domain.SaveInput) (domain.Chart, error) {
	d := in.Draft
	d.Name = strings.TrimSpace(d.Name)
	if err := d.CanCreate(); err != nil {
		return domain.Chart{}, err
	}
	if err := s.checkDataset(d.Dataset); err != nil {
		return domain.Chart{}, err
	}

	d.ChartType = charttypes.Normalize(d.ChartType)
	if d.ChartType == "" {
		d.ChartType = DefaultChartType
	}
	if !charttypes.Known(d.ChartType) {
		return domain.Chart{}, perr.WithField(perr.InvalidArgf("unknown chart type %q", in.Draft.ChartType), "chart_type")
	}

	sql, err := querygen.Build(d)
	if err != nil {
		return domain.Chart{}, err
	}
	doc, err := json.Marshal(d)
	if err != nil {
		return domain.Chart{}, perr.Wrap(err, perr.ErrorCodeJSON, "encode draft")
	}

	svc := in.Service
	if svc == "" {
		svc = domain.DefaultService
	}
	row := repo.RowChart{
		ID:        s.newID().String(),
		Name:      d.Name,
		ChartType: d.ChartType,
		Dataset:   d.Dataset,
		Service:   svc,
		Query:     sql,
		Draft:     string(doc),
	}
	at, err := s.Repo.Insert(ctx, row)
	if err != nil {
		return domain.Chart{}, err
	}
	row.CreatedAt = at
	logger.C(ctx).Info().Str("chart_id", row.ID).Str("dataset", row.Dataset).Msg("chart saved")
	return toChart(row)
}

// List returns saved charts newest first, filtered by q, types and a day range
func (s *Svc) List(ctx context.Context, q domain.ListQuery) ([]domain.Chart, error) {
	from, to := q.From, q.To
	if !to.IsZero() {
		// inclusive day
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, perr.WithField(perr.InvalidArgf("from must not be after to"), "from")
	}
	rows, err := s.Repo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}

	types := make([]string, 0, len(q.Types))
	for _, t := range q.Types {
		if t = charttypes.Normalize(t); t != "" {
			types = append(types, t)
		}
	}
	search := strings.TrimSpace(q.Q)

	out := make([]domain.Chart, 0, len(rows))
	for _, r := range rows {
		if search != "" && !charttypes.ContainsFold(r.Name, search) && !charttypes.ContainsFold(r.ChartType, search) {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, r.ChartType) {
			continue
		}
		c, err := toChart(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Get returns one saved chart
func (s *Svc) Get(ctx context.Context, id string) (domain.Chart, error) {
	if err := checkID(id); err != nil {
		return domain.Chart{}, err
	}
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Chart{}, err
	}
	return toChart(r)
}

// Many returns the charts found for ids, unknown and malformed ids are skipped
func (s *Svc) Many(ctx context.Context, ids []string) ([]domain.Chart, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if checkID(id) == nil {
			valid = append(valid, id)
		}
	}
	rows, err := s.Repo.GetMany(ctx, valid)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Chart, 0, len(rows))
	for _, r := range rows {
		c, err := toChart(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Delete removes a saved chart
func (s *Svc) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("chart %s not found", id)
	}
	return nil
}

func (s *Svc) checkDataset(name string) error {
	if s.opts.Datasets == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	if !s.opts.Datasets.Known(name) {
		return perr.WithField(perr.InvalidArgf("unknown dataset %q", name), "dataset")
	}
	return nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return perr.WithField(perr.InvalidArgf("invalid chart id %q", id), "id")
	}
	return nil
}

func toChart(r repo.RowChart) (domain.Chart, error) {
	var d querygen.Draft
	if r.Draft != "" {
		if err := json.Unmarshal([]byte(r.Draft), &d); err != nil {
			return domain.Chart{}, perr.Wrapf(err, perr.ErrorCodeJSON, "decode stored draft of chart %s", r.ID)
		}
	}
	return domain.Chart{
		ID:        r.ID,
		Name:      r.Name,
		ChartType: r.ChartType,
		Dataset:   r.Dataset,
		Service:   r.Service,
		Query:     r.Query,
		Draft:     d,
		CreatedAt: r.CreatedAt,
	}, nil
}

func nonNilRows(rows []rowset.Row) []rowset.Row {
	if rows == nil {
		return []rowset.Row{}
	}
	return rows
}
