package analytics

import (
	"context"
	"strings"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/store"
)

// columnsSQL lists a table's columns in declaration order
const columnsSQL = `SELECT name, type FROM system.columns WHERE database = currentDatabase() AND table = ? ORDER BY position`

// Clickhouse executes queries natively against ClickHouse
type Clickhouse struct {
	db store.Clickhouse
}

var (
	_ Executor = (*Clickhouse)(nil)
	_ Pinger   = (*Clickhouse)(nil)
)

// NewClickhouse wraps the store seam, panicking on nil like service constructors do
func NewClickhouse(db store.Clickhouse) *Clickhouse {
	if db == nil {
		panic("analytics: nil clickhouse seam")
	}
	return &Clickhouse{db: db}
}

// Query runs sql and returns the rows in column order
func (c *Clickhouse) Query(ctx context.Context, sql string) (rowset.Set, error) {
	cols, vals, err := c.db.Select(ctx, sql)
	if err != nil {
		return rowset.Set{}, perr.Wrap(err, perr.ErrorCodeUpstream, "clickhouse query failed")
	}
	return rowset.FromRows(cols, vals), nil
}

// Columns reads system.columns and types each column
func (c *Clickhouse) Columns(ctx context.Context, dataset string) ([]querygen.Column, error) {
	_, vals, err := c.db.Select(ctx, columnsSQL, dataset)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "clickhouse column listing failed")
	}
	out := make([]querygen.Column, 0, len(vals))
	for _, v := range vals {
		if len(v) < 2 {
			continue
		}
		name, _ := v[0].(string)
		typ, _ := v[1].(string)
		if name == "" {
			continue
		}
		out = append(out, querygen.Column{Name: name, Type: columnType(name, typ)})
	}
	return out, nil
}

// Ping reports whether the seam answers
func (c *Clickhouse) Ping(ctx context.Context) error {
	if p, ok := c.db.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// columnType maps a ClickHouse type onto a column type, unknown types fall back to the name
func columnType(name, chType string) querygen.ColumnType {
	t := unwrapType(chType)
	switch {
	case strings.HasPrefix(t, "Int"), strings.HasPrefix(t, "UInt"),
		strings.HasPrefix(t, "Float"), strings.HasPrefix(t, "Decimal"):
		return querygen.ColumnNumber
	case strings.HasPrefix(t, "Date"):
		return querygen.ColumnTime
	}
	return querygen.Classify(name)
}

// unwrapType strips Nullable and LowCardinality wrappers in any nesting
func unwrapType(t string) string {
	for {
		stripped := false
		for _, wrap := range []string{"Nullable(", "LowCardinality("} {
			if strings.HasPrefix(t, wrap) && strings.HasSuffix(t, ")") {
				t = t[len(wrap) : len(t)-1]
				stripped = true
			}
		}
		if !stripped {
			return t
		}
	}
}
