// Package rowset holds query results with a stable column order
package rowset

import (
	"bytes"
	"encoding/json"
	"io"

	perr "datalens/internal/platform/errors"
)

// MaxRows is the most rows any caller hands to a chart or export
const MaxRows = 10000

// Row maps a column name to its decoded value
type Row = map[string]any

// Set is a result set; Columns carries the order maps cannot
type Set struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows
func (s Set) Len() int { return len(s.Rows) }

// Empty reports whether the set has no rows
func (s Set) Empty() bool { return len(s.Rows) == 0 }

// Truncate returns at most n rows and whether anything was cut
func (s Set) Truncate(n int) (Set, bool) {
	if n < 0 || len(s.Rows) <= n {
		return s, false
	}
	return Set{Columns: s.Columns, Rows: s.Rows[:n]}, true
}

// Head returns the first n rows for previews
func (s Set) Head(n int) []Row {
	t, _ := s.Truncate(n)
	return t.Rows
}

// FromRows builds a set from ordered column names and positional values
func FromRows(columns []string, values [][]any) Set {
	s := Set{Columns: columns, Rows: make([]Row, 0, len(values))}
	for _, vals := range values {
		r := make(Row, len(columns))
		for i, c := range columns {
			if i < len(vals) {
				r[c] = vals[i]
			} else {
				r[c] = nil
			}
		}
		s.Rows = append(s.Rows, r)
	}
	return s
}

// DecodeJSON reads either a bare array of objects or an object with a data array
// the first row's key order becomes the column order, later new keys are appended
func DecodeJSON(r io.Reader) (Set, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Set{}, perr.Wrap(err, perr.ErrorCodeJSON, "read result body")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Set{}, nil
	}

	var items []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return Set{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode result array")
		}
	case '{':
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return Set{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode result envelope")
		}
		d := bytes.TrimSpace(env.Data)
		if len(d) == 0 || d[0] != '[' {
			// an envelope without a data array is an empty result
			return Set{}, nil
		}
		if err := json.Unmarshal(d, &items); err != nil {
			return Set{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode result data")
		}
	default:
		return Set{}, perr.JSONErrf("unexpected result shape")
	}

	s := Set{Rows: make([]Row, 0, len(items))}
	seen := map[string]bool{}
	for _, it := range items {
		keys, row, err := decodeObject(it)
		if err != nil {
			return Set{}, err
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				s.Columns = append(s.Columns, k)
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

// decodeObject walks one JSON object keeping key order
func decodeObject(raw json.RawMessage) ([]string, Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode row")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, perr.JSONErrf("result row is not an object")
	}

	var keys []string
	row := Row{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode row key")
		}
		k, _ := kt.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, perr.Wrapf(err, perr.ErrorCodeJSON, "decode value for %q", k)
		}
		if _, dup := row[k]; !dup {
			keys = append(keys, k)
		}
		row[k] = v
	}
	return keys, row, nil
}
