// Package service serves the chart gallery catalog
package service

import (
	"context"
	"slices"

	"datalens/internal/core/charttypes"
	"datalens/internal/core/querygen"
	perr "datalens/internal/platform/errors"
	"datalens/internal/services/api/gallery/domain"
)

// Service defines the service contract for the gallery
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	datasets []string
}

// New creates a gallery service offering datasets in the builder picker
func New(datasets []string) *Svc {
	return &Svc{datasets: slices.Clone(datasets)}
}

// Types filters the catalog
func (s *Svc) Types(_ context.Context, q charttypes.Query) (domain.TypesOutput, error) {
	if q.Category != "" && q.Category != charttypes.CategoryAll && !slices.Contains(charttypes.Categories, q.Category) {
		return domain.TypesOutput{}, perr.WithField(perr.InvalidArgf("unknown category %q", q.Category), "category")
	}
	types := charttypes.Filter(q)
	return domain.TypesOutput{Types: types, Total: len(types)}, nil
}

// Categories lists every picker option
func (s *Svc) Categories(context.Context) (domain.CategoriesOutput, error) {
	return domain.CategoriesOutput{
		Categories: append([]string{charttypes.CategoryAll}, charttypes.Categories...),
		Tags:       charttypes.Tags(),
		Datasets:   slices.Clone(s.datasets),
		Metrics:    slices.Clone(querygen.Metrics),
	}, nil
}
