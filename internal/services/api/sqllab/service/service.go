// Package service runs ad hoc read only SQL
package service

import (
	"context"
	"time"

	"datalens/internal/adapters/analytics"
	"datalens/internal/adapters/exportstore"
	"datalens/internal/core/chartdata"
	"datalens/internal/core/csvexport"
	"datalens/internal/core/rowset"
	"datalens/internal/core/sqlguard"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/logger"
	"datalens/internal/services/api/sqllab/domain"
)

// Service defines the service contract for SQL Lab
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	exec    analytics.Executor
	exports exportstore.Uploader
	rowCap  int
	now     func() time.Time
}

// New creates a SQL Lab service; exports may be nil when no bucket is configured
func New(exec analytics.Executor, exports exportstore.Uploader, rowCap int) *Svc {
	if exec == nil {
		panic("sqllab.Service requires a non nil Executor")
	}
	if rowCap <= 0 || rowCap > rowset.MaxRows {
		rowCap = rowset.MaxRows
	}
	return &Svc{exec: exec, exports: exports, rowCap: rowCap, now: time.Now}
}

// Execute guards and runs the statement then suggests a chart for the rows
func (s *Svc) Execute(ctx context.Context, in domain.QueryInput) (domain.ExecuteOutput, error) {
	set, stmt, err := s.run(ctx, in.SQL)
	if err != nil {
		return domain.ExecuteOutput{}, err
	}
	total := set.Len()
	capped, truncated := set.Truncate(s.rowCap)
	if truncated {
		logger.C(ctx).Info().Int("rows", total).Int("cap", s.rowCap).Msg("sqllab result truncated")
	}
	suggested := chartdata.Suggest(capped)
	preview := capped.Head(domain.PreviewRows)
	if preview == nil {
		preview = []rowset.Row{}
	}
	return domain.ExecuteOutput{
		SQL:       stmt,
		Columns:   capped.Columns,
		Preview:   preview,
		Total:     total,
		Truncated: truncated,
		Suggested: suggested,
		Chart:     chartdata.Infer(capped, suggested),
	}, nil
}

// Export renders the full result as CSV, oversized results are refused
func (s *Svc) Export(ctx context.Context, in domain.QueryInput) (domain.Export, error) {
	set, _, err := s.run(ctx, in.SQL)
	if err != nil {
		return domain.Export{}, err
	}
	body, err := csvexport.Render(set)
	if err != nil {
		return domain.Export{}, err
	}
	return domain.Export{FileName: csvexport.FileName(s.now()), Body: body, Rows: set.Len()}, nil
}

// Upload renders the CSV and stores it in the export bucket
func (s *Svc) Upload(ctx context.Context, in domain.QueryInput) (domain.UploadOutput, error) {
	if s.exports == nil {
		return domain.UploadOutput{}, perr.Unavailablef("export store is not configured")
	}
	exp, err := s.Export(ctx, in)
	if err != nil {
		return domain.UploadOutput{}, err
	}
	obj, err := s.exports.Upload(ctx, exp.Body)
	if err != nil {
		return domain.UploadOutput{}, err
	}
	logger.C(ctx).Info().Str("bucket", obj.Bucket).Str("key", obj.Key).Int("rows", exp.Rows).Msg("export uploaded")
	return domain.UploadOutput{Object: obj, FileName: exp.FileName, Rows: exp.Rows}, nil
}

func (s *Svc) run(ctx context.Context, sql string) (rowset.Set, string, error) {
	stmt, err := sqlguard.Statement(sql)
	if err != nil {
		return rowset.Set{}, "", err
	}
	set, err := s.exec.Query(ctx, stmt)
	if err != nil {
		return rowset.Set{}, "", err
	}
	return set, stmt, nil
}
