// Package service contains dataset workflows
package service

import (
	"context"
	"slices"
	"strings"

	"datalens/internal/adapters/analytics"
	perr "datalens/internal/platform/errors"
	"datalens/internal/services/api/datasets/domain"
)

// Service defines the service contract for datasets
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	exec     analytics.Executor
	datasets []string
}

// New creates a new datasets service
func New(exec analytics.Executor, datasets []string) *Svc {
	if exec == nil {
		panic("datasets.Service requires a non nil Executor")
	}
	clean := make([]string, 0, len(datasets))
	for _, d := range datasets {
		if d = strings.TrimSpace(d); d != "" && !slices.Contains(clean, d) {
			clean = append(clean, d)
		}
	}
	return &Svc{exec: exec, datasets: clean}
}

// Known reports whether name is one of the configured datasets
func (s *Svc) Known(name string) bool { return slices.Contains(s.datasets, name) }

// List returns the configured datasets in configuration order
func (s *Svc) List(context.Context) (domain.ListOutput, error) {
	return domain.ListOutput{Datasets: slices.Clone(s.datasets)}, nil
}

// Columns asks the analytics backend for the dataset's columns
func (s *Svc) Columns(ctx context.Context, dataset string) (domain.ColumnsOutput, error) {
	if !s.Known(dataset) {
		return domain.ColumnsOutput{}, perr.WithField(perr.NotFoundf("unknown dataset %q", dataset), "dataset")
	}
	cols, err := s.exec.Columns(ctx, dataset)
	if err != nil {
		return domain.ColumnsOutput{}, err
	}
	return domain.ColumnsOutput{Dataset: dataset, Columns: cols}, nil
}
