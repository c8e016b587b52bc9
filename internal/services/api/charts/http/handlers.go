// Package http provides http transport for charts
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"datalens/internal/core/querygen"
	"datalens/internal/modkit/httpkit"
	perr "datalens/internal/platform/errors"
	"datalens/internal/services/api/charts/domain"
	svc "datalens/internal/services/api/charts/service"
)

// Register mounts chart endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[querygen.Draft](r, "/build", h.build)
	httpkit.PostJSON[querygen.Draft](r, "/validate", h.validate)
	httpkit.PostJSON[querygen.Draft](r, "/preview", h.preview)
	httpkit.PostJSON[domain.SaveInput](r, "/", h.save)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Delete(r, "/{id}", h.delete)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /charts/build Charts chartsBuild
// @Summary Generate the SQL for a chart draft
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body querygen.Draft true "Draft"
// @Success 200 {object} domain.BuildOutput "ok"
// @Failure 422 {object} httpkit.Envelope "invalid draft"
// @Router /charts/build [post]
func (h *handlers) build(r *stdhttp.Request, in querygen.Draft) (any, error) {
	return h.svc.Build(r.Context(), in)
}

// swagger:route POST /charts/validate Charts chartsValidate
// @Summary Report whether a draft can be saved
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body querygen.Draft true "Draft"
// @Success 200 {object} domain.ValidateOutput "ok"
// @Router /charts/validate [post]
func (h *handlers) validate(r *stdhttp.Request, in querygen.Draft) (any, error) {
	return h.svc.Validate(r.Context(), in)
}

// swagger:route POST /charts/preview Charts chartsPreview
// @Summary Build, execute and project a draft
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body querygen.Draft true "Draft"
// @Success 200 {object} domain.PreviewOutput "ok"
// @Failure 422 {object} httpkit.Envelope "invalid draft"
// @Failure 502 {object} httpkit.Envelope "analytics backend failed"
// @Router /charts/preview [post]
func (h *handlers) preview(r *stdhttp.Request, in querygen.Draft) (any, error) {
	return h.svc.Preview(r.Context(), in)
}

// swagger:route POST /charts Charts chartsSave
// @Summary Save a complete chart draft
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.SaveInput true "Chart"
// @Success 201 {object} domain.Chart "created"
// @Failure 422 {object} httpkit.Envelope "incomplete draft"
// @Router /charts [post]
func (h *handlers) save(r *stdhttp.Request, in domain.SaveInput) (any, error) {
	c, err := h.svc.Save(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(c), nil
}

// swagger:route GET /charts Charts chartsList
// @Summary List saved charts
// @Tags Charts
// @Produce json
// @Param q query string false "Name or chart type contains"
// @Param types query string false "Comma separated chart types"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Success 200 {array} domain.Chart "ok"
// @Router /charts [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q, err := parseListQuery(r)
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), q)
}

// swagger:route GET /charts/{id} Charts chartsGet
// @Summary Get a saved chart
// @Tags Charts
// @Produce json
// @Param id path string true "Chart id"
// @Success 200 {object} domain.Chart "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /charts/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "id"))
}

// swagger:route DELETE /charts/{id} Charts chartsDelete
// @Summary Delete a saved chart
// @Tags Charts
// @Param id path string true "Chart id"
// @Success 204 "deleted"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /charts/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

const dayLayout = "2006-01-02"

func parseListQuery(r *stdhttp.Request) (domain.ListQuery, error) {
	v := r.URL.Query()
	q := domain.ListQuery{Q: v.Get("q")}
	for _, t := range strings.Split(v.Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			q.Types = append(q.Types, t)
		}
	}
	var err error
	if q.From, err = parseDay(v.Get("from"), "from"); err != nil {
		return q, err
	}
	if q.To, err = parseDay(v.Get("to"), "to"); err != nil {
		return q, err
	}
	return q, nil
}

func parseDay(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, perr.WithField(perr.InvalidArgf("%s must be YYYY-MM-DD", field), field)
	}
	return t, nil
}
