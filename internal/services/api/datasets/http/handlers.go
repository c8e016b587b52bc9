// Package http provides http transport for datasets
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"datalens/internal/modkit/httpkit"
	svc "datalens/internal/services/api/datasets/service"
)

// Register mounts dataset endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{name}/columns", h.columns)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /datasets Datasets datasetsList
// @Summary Datasets selectable in the chart builder
// @Tags Datasets
// @Produce json
// @Success 200 {object} domain.ListOutput "ok"
// @Router /datasets [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// swagger:route GET /datasets/{name}/columns Datasets datasetsColumns
// @Summary Typed column listing of a dataset
// @Tags Datasets
// @Produce json
// @Param name path string true "Dataset"
// @Success 200 {object} domain.ColumnsOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown dataset"
// @Failure 502 {object} httpkit.Envelope "analytics backend failed"
// @Router /datasets/{name}/columns [get]
func (h *handlers) columns(r *stdhttp.Request) (any, error) {
	return h.svc.Columns(r.Context(), chi.URLParam(r, "name"))
}
