package charttypes

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Query narrows the gallery the way the chart picker does
type Query struct {
	Search   string
	Category string
	Tags     []string
}

var folder = cases.Fold()

// Fold case folds s for comparisons that should ignore case
func Fold(s string) string { return folder.String(s) }

// ContainsFold reports whether sub is within s ignoring case
func ContainsFold(s, sub string) bool {
	return strings.Contains(Fold(s), Fold(sub))
}

// Filter returns catalog entries matching q in catalog order
func Filter(q Query) []ChartType {
	search := strings.TrimSpace(q.Search)
	out := make([]ChartType, 0, len(catalog))
	for _, c := range catalog {
		if search != "" && !ContainsFold(c.Name, search) && !ContainsFold(c.Description, search) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && c.Category != q.Category {
			continue
		}
		if len(q.Tags) > 0 && !slices.ContainsFunc(q.Tags, func(t string) bool { return slices.Contains(c.Tags, t) }) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Tags returns every distinct tag in catalog order
func Tags() []string {
	var out []string
	for _, c := range catalog {
		for _, t := range c.Tags {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}
