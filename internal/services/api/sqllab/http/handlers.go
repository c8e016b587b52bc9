// Package http provides http transport for SQL Lab
package http

import (
	stdhttp "net/http"

	"datalens/internal/core/csvexport"
	"datalens/internal/modkit/httpkit"
	"datalens/internal/services/api/sqllab/domain"
	svc "datalens/internal/services/api/sqllab/service"
)

// Register mounts SQL Lab endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.QueryInput](r, "/execute", h.execute)
	httpkit.PostJSON[domain.QueryInput](r, "/export", h.export)
	httpkit.PostJSON[domain.QueryInput](r, "/export/s3", h.upload)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /sqllab/execute SQLLab sqllabExecute
// @Summary Run a read only statement
// @Description Rejects SELECT *, write statements and multiple statements. Rows are capped and a chart type is suggested from the first row.
// @Tags SQL Lab
// @Accept json
// @Produce json
// @Param body body domain.QueryInput true "Statement"
// @Success 200 {object} domain.ExecuteOutput "ok"
// @Failure 403 {object} httpkit.Envelope "statement not allowed"
// @Failure 422 {object} httpkit.Envelope "empty or multiple statements"
// @Failure 502 {object} httpkit.Envelope "analytics backend failed"
// @Router /sqllab/execute [post]
func (h *handlers) execute(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Execute(r.Context(), in)
}

// swagger:route POST /sqllab/export SQLLab sqllabExport
// @Summary Download the result as CSV
// @Tags SQL Lab
// @Accept json
// @Produce text/csv
// @Param body body domain.QueryInput true "Statement"
// @Success 200 {string} string "csv document"
// @Failure 422 {object} httpkit.Envelope "too many rows"
// @Router /sqllab/export [post]
func (h *handlers) export(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	exp, err := h.svc.Export(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Attachment(exp.FileName, csvexport.ContentType, exp.Body), nil
}

// swagger:route POST /sqllab/export/s3 SQLLab sqllabUpload
// @Summary Store the CSV in the export bucket
// @Tags SQL Lab
// @Accept json
// @Produce json
// @Param body body domain.QueryInput true "Statement"
// @Success 201 {object} domain.UploadOutput "stored"
// @Failure 503 {object} httpkit.Envelope "no export bucket configured"
// @Router /sqllab/export/s3 [post]
func (h *handlers) upload(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	out, err := h.svc.Upload(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}
