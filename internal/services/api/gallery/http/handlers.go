// Package http provides http transport for the gallery
package http

import (
	stdhttp "net/http"
	"strings"

	"datalens/internal/core/charttypes"
	"datalens/internal/modkit/httpkit"
	svc "datalens/internal/services/api/gallery/service"
)

// Register mounts gallery endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/types", h.types)
	httpkit.Get(r, "/categories", h.categories)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /gallery/types Gallery galleryTypes
// @Summary Chart types filtered like the chart picker
// @Tags Gallery
// @Produce json
// @Param q query string false "Name or description contains"
// @Param category query string false "Category, All charts matches every type"
// @Param tags query string false "Comma separated tags, any match"
// @Success 200 {object} domain.TypesOutput "ok"
// @Router /gallery/types [get]
func (h *handlers) types(r *stdhttp.Request) (any, error) {
	v := r.URL.Query()
	q := charttypes.Query{Search: v.Get("q"), Category: strings.TrimSpace(v.Get("category"))}
	for _, t := range strings.Split(v.Get("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			q.Tags = append(q.Tags, t)
		}
	}
	return h.svc.Types(r.Context(), q)
}

// swagger:route GET /gallery/categories Gallery galleryCategories
// @Summary Categories, tags, datasets and metrics for the pickers
// @Tags Gallery
// @Produce json
// @Success 200 {object} domain.CategoriesOutput "ok"
// @Router /gallery/categories [get]
func (h *handlers) categories(r *stdhttp.Request) (any, error) {
	return h.svc.Categories(r.Context())
}
