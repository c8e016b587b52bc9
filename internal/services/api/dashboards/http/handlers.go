// Package http provides http and websocket transport for dashboards
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"datalens/internal/modkit/httpkit"
	"datalens/internal/services/api/dashboards/domain"
	svc "datalens/internal/services/api/dashboards/service"
)

// Register mounts dashboard endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Delete(r, "/{id}", h.delete)
	httpkit.Get(r, "/{id}/render", h.render)
	r.Get("/{id}/stream", h.stream)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /dashboards Dashboards dashboardsCreate
// @Summary Create a dashboard from saved charts
// @Tags Dashboards
// @Accept json
// @Produce json
// @Param body body domain.CreateInput true "Dashboard"
// @Success 201 {object} domain.Dashboard "created"
// @Failure 422 {object} httpkit.Envelope "unknown widget"
// @Router /dashboards [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route GET /dashboards Dashboards dashboardsList
// @Summary List dashboards newest first
// @Tags Dashboards
// @Produce json
// @Success 200 {array} domain.Dashboard "ok"
// @Router /dashboards [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// swagger:route GET /dashboards/{id} Dashboards dashboardsGet
// @Summary Get a dashboard
// @Tags Dashboards
// @Produce json
// @Param id path string true "Dashboard id"
// @Success 200 {object} domain.Dashboard "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /dashboards/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "id"))
}

// swagger:route DELETE /dashboards/{id} Dashboards dashboardsDelete
// @Summary Delete a dashboard
// @Tags Dashboards
// @Param id path string true "Dashboard id"
// @Success 204 "deleted"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /dashboards/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route GET /dashboards/{id}/render Dashboards dashboardsRender
// @Summary Execute every widget of a dashboard
// @Description Widgets run one after another. A failing widget has empty data and an error string.
// @Tags Dashboards
// @Produce json
// @Param id path string true "Dashboard id"
// @Success 200 {object} domain.RenderOutput "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /dashboards/{id}/render [get]
func (h *handlers) render(r *stdhttp.Request) (any, error) {
	return h.svc.Render(r.Context(), chi.URLParam(r, "id"))
}
