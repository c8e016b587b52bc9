// Package repo provides postgres access for dashboards
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

// Repo defines the repository contract for dashboards
type Repo interface {
	Insert(ctx context.Context, d RowDashboard) (time.Time, error)
	Get(ctx context.Context, id string) (RowDashboard, error)
	List(ctx context.Context) ([]RowDashboard, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RowDashboard is a dashboards row
type RowDashboard struct {
	ID          string
	Name        string
	Description string
	WidgetIDs   []string
	CreatedAt   time.Time
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const selectCols = `id::text, name, description, widget_ids::text[], created_at`

func (r *queries) Insert(ctx context.Context, d RowDashboard) (time.Time, error) {
	const sql = `
insert into dashboards (id, name, description, widget_ids)
values ($1::uuid, $2, $3, $4::text[]::uuid[])
returning created_at
`
	ids := d.WidgetIDs
	if ids == nil {
		ids = []string{}
	}
	var at time.Time
	if err := r.q.QueryRow(ctx, sql, d.ID, d.Name, d.Description, ids).Scan(&at); err != nil {
		return time.Time{}, perr.FromPostgresWithField(err, "insert dashboard")
	}
	return at, nil
}

func (r *queries) Get(ctx context.Context, id string) (RowDashboard, error) {
	const sql = `select ` + selectCols + ` from dashboards where id = $1::uuid`
	d, err := scanDashboard(r.q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowDashboard{}, perr.NotFoundf("dashboard %s not found", id)
		}
		return RowDashboard{}, perr.FromPostgres(err, "get dashboard")
	}
	return d, nil
}

func (r *queries) List(ctx context.Context) ([]RowDashboard, error) {
	const sql = `select ` + selectCols + ` from dashboards order by created_at desc`
	out, err := store.Many(ctx, r.q, scanDashboard, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list dashboards")
	}
	return out, nil
}

func (r *queries) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from dashboards where id = $1::uuid`, id)
	if err != nil {
		return false, perr.FromPostgres(err, "delete dashboard")
	}
	return tag.RowsAffected() > 0, nil
}

func scanDashboard(row store.Row) (RowDashboard, error) {
	var d RowDashboard
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.WidgetIDs, &d.CreatedAt)
	return d, err
}
