// Package service contains dashboard workflows
package service

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"datalens/internal/adapters/analytics"
	"datalens/internal/core/chartdata"
	"datalens/internal/core/rowset"
	"datalens/internal/modkit/repokit"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/logger"
	chartsdomain "datalens/internal/services/api/charts/domain"
	"datalens/internal/services/api/dashboards/domain"
	"datalens/internal/services/api/dashboards/repo"
)

// errChartMissing is the widget error for ids with no saved chart
const errChartMissing = "chart not found"

// Service defines the service contract for dashboards
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	charts domain.ChartSource
	exec   analytics.Executor
	rowCap int

	newID func() uuid.UUID
}

var _ Service = (*Svc)(nil)

// New creates a new dashboards service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], charts domain.ChartSource, exec analytics.Executor, rowCap int) *Svc {
	if db == nil {
		panic("dashboards.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("dashboards.Service requires a non nil Repo binder")
	}
	if charts == nil {
		panic("dashboards.Service requires a non nil ChartSource")
	}
	if exec == nil {
		panic("dashboards.Service requires a non nil Executor")
	}
	if rowCap <= 0 || rowCap > rowset.MaxRows {
		rowCap = rowset.MaxRows
	}
	return &Svc{
		Repo:   binder.Bind(db),
		charts: charts,
		exec:   exec,
		rowCap: rowCap,
		newID:  uuid.New,
	}
}

// Create saves a dashboard; every widget must name a saved chart
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Dashboard, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Dashboard{}, perr.WithField(perr.InvalidArgf("name is required"), "name")
	}

	ids := make([]string, 0, len(in.WidgetIDs))
	for _, raw := range in.WidgetIDs {
		u, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return domain.Dashboard{}, perr.WithField(perr.InvalidArgf("invalid widget id %q", raw), "widget_ids")
		}
		if id := u.String(); !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		found, err := s.charts.Many(ctx, ids)
		if err != nil {
			return domain.Dashboard{}, err
		}
		for _, id := range ids {
			if !slices.ContainsFunc(found, func(c chartsdomain.Chart) bool { return c.ID == id }) {
				return domain.Dashboard{}, perr.WithField(perr.InvalidArgf("widget %s is not a saved chart", id), "widget_ids")
			}
		}
	}

	row := repo.RowDashboard{
		ID:          s.newID().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		WidgetIDs:   ids,
	}
	at, err := s.Repo.Insert(ctx, row)
	if err != nil {
		return domain.Dashboard{}, err
	}
	row.CreatedAt = at
	logger.C(ctx).Info().Str("dashboard_id", row.ID).Int("widgets", len(ids)).Msg("dashboard created")
	return toDashboard(row), nil
}

// List returns dashboards newest first
func (s *Svc) List(ctx context.Context) ([]domain.Dashboard, error) {
	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Dashboard, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDashboard(r))
	}
	return out, nil
}

// Get returns one dashboard
func (s *Svc) Get(ctx context.Context, id string) (domain.Dashboard, error) {
	if err := checkID(id); err != nil {
		return domain.Dashboard{}, err
	}
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return toDashboard(r), nil
}

// Delete removes a dashboard, the charts it shows are kept
func (s *Svc) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("dashboard %s not found", id)
	}
	return nil
}

// Render executes every widget and returns them together
func (s *Svc) Render(ctx context.Context, id string) (domain.RenderOutput, error) {
	var widgets []domain.Widget
	d, err := s.Stream(ctx, id, func(w domain.Widget) error {
		widgets = append(widgets, w)
		return nil
	})
	if err != nil {
		return domain.RenderOutput{}, err
	}
	if widgets == nil {
		widgets = []domain.Widget{}
	}
	return domain.RenderOutput{Dashboard: d, Widgets: widgets}, nil
}

// Stream runs widget queries one after another in dashboard order
// a failing widget is emitted with its error, cancellation stops the run
func (s *Svc) Stream(ctx context.Context, id string, emit func(domain.Widget) error) (domain.Dashboard, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return domain.Dashboard{}, err
	}
	charts, err := s.charts.Many(ctx, d.WidgetIDs)
	if err != nil {
		return domain.Dashboard{}, err
	}
	byID := make(map[string]chartsdomain.Chart, len(charts))
	for _, c := range charts {
		byID[c.ID] = c
	}

	log := logger.C(ctx)
	for _, wid := range d.WidgetIDs {
		if err := ctx.Err(); err != nil {
			return d, err
		}
		c, ok := byID[wid]
		if !ok {
			if err := emit(emptyWidget(wid, errChartMissing)); err != nil {
				return d, err
			}
			continue
		}
		w := s.runWidget(ctx, c)
		if ctx.Err() != nil {
			return d, ctx.Err()
		}
		if w.Error != "" {
			log.Warn().Str("dashboard_id", d.ID).Str("chart_id", c.ID).Str("error", w.Error).Msg("widget failed")
		}
		if err := emit(w); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (s *Svc) runWidget(ctx context.Context, c chartsdomain.Chart) domain.Widget {
	w := emptyWidget(c.ID, "")
	w.Name, w.ChartType, w.Dataset = c.Name, c.ChartType, c.Dataset

	set, err := s.exec.Query(ctx, c.Query)
	if err != nil {
		w.Error = perr.WireFrom(err).Message
		return w
	}
	w.Rows = set.Len()
	set, w.Truncated = set.Truncate(s.rowCap)
	w.Data = chartdata.Infer(set, c.ChartType)
	return w
}

func emptyWidget(chartID, msg string) domain.Widget {
	return domain.Widget{
		ChartID: chartID,
		Data:    chartdata.Data{Labels: []string{}, Values: []float64{}},
		Error:   msg,
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return perr.WithField(perr.InvalidArgf("invalid dashboard id %q", id), "id")
	}
	return nil
}

func toDashboard(r repo.RowDashboard) domain.Dashboard {
	ids := r.WidgetIDs
	if ids == nil {
		ids = []string{}
	}
	return domain.Dashboard{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		WidgetIDs:   ids,
		CreatedAt:   r.CreatedAt,
	}
}
