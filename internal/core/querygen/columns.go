// Package querygen turns chart drafts into SQL select strings
package querygen

import "strings"

// ColumnType is the coarse type the builder cares about
type ColumnType string

const (
	// ColumnString is any column without a better classification
	ColumnString ColumnType = "string"
	// ColumnTime is the dataset time column, usually __time
	ColumnTime ColumnType = "time"
	// ColumnJSON is a JSON path into the ext column, e.g. $.device.id
	ColumnJSON ColumnType = "json"
	// ColumnNumber is only reported by backends that expose real types
	ColumnNumber ColumnType = "number"
)

// Column describes one selectable column of a dataset
type Column struct {
	Name string     `json:"name" yaml:"name"`
	Type ColumnType `json:"type" yaml:"type"`
}

// Classify infers a column type from its name alone
// __time wins over $ so a path like $.__time stays a time column
func Classify(name string) ColumnType {
	switch {
	case strings.Contains(name, "__time"):
		return ColumnTime
	case strings.Contains(name, "$"):
		return ColumnJSON
	default:
		return ColumnString
	}
}

// ClassifyAll maps raw names to columns using Classify
func ClassifyAll(names []string) []Column {
	out := make([]Column, 0, len(names))
	for _, n := range names {
		out = append(out, Column{Name: n, Type: Classify(n)})
	}
	return out
}

// typeOf resolves a column type from a typed listing, falling back to the name heuristic
func typeOf(cols []Column, name string) ColumnType {
	for _, c := range cols {
		if c.Name == name && c.Type != "" {
			return c.Type
		}
	}
	return Classify(name)
}

// Valid reports whether t is one of the known column types
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnString, ColumnTime, ColumnJSON, ColumnNumber:
		return true
	}
	return false
}

// ColumnType resolves the type of a column against the draft's listing
func (d Draft) ColumnType(name string) ColumnType { return typeOf(d.Columns, name) }
