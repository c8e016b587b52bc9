// Package repo provides postgres access for saved charts
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"datalens/internal/modkit/repokit"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/store"
)

// Repo defines the repository contract for charts
type Repo interface {
	Insert(ctx context.Context, c RowChart) (time.Time, error)
	Get(ctx context.Context, id string) (RowChart, error)
	GetMany(ctx context.Context, ids []string) ([]RowChart, error)
	List(ctx context.Context, from, to time.Time) ([]RowChart, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RowChart is a charts row; Draft is the raw jsonb document
type RowChart struct {
	ID        string
	Name      string
	ChartType string
	Dataset   string
	Service   string
	Query     string
	Draft     string
	CreatedAt time.Time
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const selectCols = `id::text, name, chart_type, dataset, service, query, draft::text, created_at`

func (r *queries) Insert(ctx context.Context, c RowChart) (time.Time, error) {
	const sql = `
insert into charts (id, name, chart_type, dataset, service, query, draft)
values ($1::uuid, $2, $3, $4, $5, $6, $7::jsonb)
returning created_at
`
	var at time.Time
	err := r.q.QueryRow(ctx, sql, c.ID, c.Name, c.ChartType, c.Dataset, c.Service, c.Query, c.Draft).Scan(&at)
	if err != nil {
		return time.Time{}, perr.FromPostgresWithField(err, "insert chart")
	}
	return at, nil
}

func (r *queries) Get(ctx context.Context, id string) (RowChart, error) {
	const sql = `select ` + selectCols + ` from charts where id = $1::uuid`
	c, err := scanChart(r.q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowChart{}, perr.NotFoundf("chart %s not found", id)
		}
		return RowChart{}, perr.FromPostgres(err, "get chart")
	}
	return c, nil
}

func (r *queries) GetMany(ctx context.Context, ids []string) ([]RowChart, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const sql = `select ` + selectCols + ` from charts where id = any($1::uuid[])`
	return r.scan(ctx, sql, ids)
}

func (r *queries) List(ctx context.Context, from, to time.Time) ([]RowChart, error) {
	const sql = `
select ` + selectCols + `
from charts
where ($1::timestamptz is null or created_at >= $1)
and ($2::timestamptz is null or created_at < $2)
order by created_at desc
`
	return r.scan(ctx, sql, nullTime(from), nullTime(to))
}

func (r *queries) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from charts where id = $1::uuid`, id)
	if err != nil {
		return false, perr.FromPostgres(err, "delete chart")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) scan(ctx context.Context, sql string, args ...any) ([]RowChart, error) {
	out, err := store.Many(ctx, r.q, scanChart, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list charts")
	}
	return out, nil
}

func scanChart(row store.Row) (RowChart, error) {
	var c RowChart
	err := row.Scan(&c.ID, &c.Name, &c.ChartType, &c.Dataset, &c.Service, &c.Query, &c.Draft, &c.CreatedAt)
	return c, err
}

// nullTime sends the zero time as SQL null
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
