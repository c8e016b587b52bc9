package querygen

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	perr "datalens/internal/platform/errors"
)

// ExtColumn holds the raw JSON document JSON_VALUE paths are read from
const ExtColumn = "ext"

// TimeWindow is the trailing bound applied to time x-axes
const TimeWindow = `CURRENT_TIMESTAMP - INTERVAL '365' DAY`

// Build renders the draft as a single SQL select
// the output depends only on the draft so equal drafts give equal SQL
func Build(d Draft) (string, error) {
	if err := validate(d); err != nil {
		return "", err
	}

	b := newBuilder(d)
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.selectList(), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(QuoteIdent(d.Dataset))

	if conds := b.where(); len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	if groups := b.groupBy(); len(groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groups, ", "))
	}
	if order := b.orderBy(); order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}

	limit := d.RowLimit
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	sb.WriteString(" LIMIT ")
	sb.WriteString(strconv.Itoa(limit))

	return sb.String(), nil
}

func validate(d Draft) error {
	if strings.TrimSpace(d.Dataset) == "" {
		return perr.WithField(perr.InvalidArgf("dataset is required"), "dataset")
	}
	for _, m := range d.Metrics {
		if !m.Valid() {
			return perr.WithField(perr.InvalidArgf("unknown metric %q", m), "metrics")
		}
	}
	switch d.SortMode {
	case "", SortGroup, SortMetric:
	default:
		return perr.WithField(perr.InvalidArgf("unknown sort mode %q", d.SortMode), "sort_mode")
	}
	if slices.Contains(d.Dimensions, "") {
		return perr.WithField(perr.InvalidArgf("empty dimension column"), "dimensions")
	}
	if slices.Contains(d.Filters, "") {
		return perr.WithField(perr.InvalidArgf("empty filter column"), "filters")
	}
	return nil
}

// builder caches the derived column lists for one Build call
type builder struct {
	d       Draft
	dims    []string // deduplicated, x-axis removed
	aliases map[string]string
	metrics []metricExpr
}

type metricExpr struct {
	expr  string
	alias string
}

func newBuilder(d Draft) *builder {
	b := &builder{d: d, aliases: map[string]string{}}

	seen := map[string]bool{}
	if d.XAxis != "" {
		seen[d.XAxis] = true
	}
	for _, dim := range d.Dimensions {
		if seen[dim] {
			continue
		}
		seen[dim] = true
		b.dims = append(b.dims, dim)
	}

	// aliases are assigned in select order so collisions resolve stably
	used := map[string]int{}
	for _, c := range b.groupColumns() {
		if b.typ(c) != ColumnJSON {
			continue
		}
		base := JSONAlias(c)
		used[base]++
		alias := base
		if n := used[base]; n > 1 {
			alias = base + "_" + strconv.Itoa(n)
		}
		b.aliases[c] = alias
	}

	seenExpr := map[string]bool{}
	for _, m := range d.Metrics {
		me := b.metric(m)
		key := me.expr + " as " + me.alias
		if seenExpr[key] {
			continue
		}
		seenExpr[key] = true
		b.metrics = append(b.metrics, me)
	}
	return b
}

func (b *builder) typ(column string) ColumnType { return typeOf(b.d.Columns, column) }

// groupColumns is the x-axis followed by the unique dimensions
func (b *builder) groupColumns() []string {
	out := make([]string, 0, len(b.dims)+1)
	if b.d.XAxis != "" {
		out = append(out, b.d.XAxis)
	}
	return append(out, b.dims...)
}

// expr is how a column is referenced outside the select list
func (b *builder) expr(column string) string {
	if b.typ(column) == ColumnJSON {
		return JSONValue(column)
	}
	return QuoteIdent(column)
}

func (b *builder) selectList() []string {
	var out []string
	for _, c := range b.groupColumns() {
		if b.typ(c) == ColumnJSON {
			out = append(out, JSONValue(c)+" AS "+b.aliases[c])
			continue
		}
		out = append(out, QuoteIdent(c))
	}
	for _, m := range b.metrics {
		out = append(out, m.expr+" as "+m.alias)
	}
	if len(out) == 0 {
		out = append(out, "COUNT(*) as total_count")
	}
	return out
}

func (b *builder) metric(m Metric) metricExpr {
	count := metricExpr{expr: "COUNT(*)", alias: "count_total"}
	if m == MetricCount {
		return count
	}

	column := b.d.MetricColumns[m]
	if column == "" {
		column = "id"
	}
	alias := strings.ToLower(string(m)) + "_total"
	typ := b.typ(column)

	switch m {
	case MetricSum, MetricAvg:
		if typ == ColumnString || typ == ColumnJSON {
			return count
		}
	}
	if typ == ColumnJSON {
		return metricExpr{expr: string(m) + "(CAST(" + JSONValue(column) + " AS DOUBLE))", alias: alias}
	}
	return metricExpr{expr: string(m) + "(" + QuoteIdent(column) + ")", alias: alias}
}

func (b *builder) where() []string {
	var conds []string
	if b.d.XAxis != "" && b.typ(b.d.XAxis) == ColumnTime {
		conds = append(conds, QuoteIdent(b.d.XAxis)+" >= "+TimeWindow)
	}
	seen := map[string]bool{}
	for _, f := range b.d.Filters {
		if seen[f] {
			continue
		}
		seen[f] = true
		conds = append(conds, b.expr(f)+" IS NOT NULL")
	}
	return conds
}

func (b *builder) groupBy() []string {
	if len(b.metrics) == 0 {
		return nil
	}
	cols := b.groupColumns()
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, b.expr(c))
	}
	return out
}

func (b *builder) orderBy() string {
	if !b.d.SortBy {
		return ""
	}
	if b.d.SortMode == SortMetric {
		if len(b.metrics) == 0 {
			return ""
		}
		return b.metrics[0].alias + " DESC"
	}
	cols := b.groupColumns()
	if len(cols) == 0 {
		return ""
	}
	return b.expr(cols[0]) + " ASC"
}

// QuoteIdent double quotes an identifier, doubling embedded quotes
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral single quotes a string literal, doubling embedded quotes
func QuoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// JSONValue extracts path from the ext document
func JSONValue(path string) string {
	return "JSON_VALUE(" + QuoteIdent(ExtColumn) + ", " + QuoteLiteral(path) + ")"
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// JSONAlias derives a bare SQL alias from a JSON path
// $.device.id becomes json_device_id
func JSONAlias(path string) string {
	s := strings.ReplaceAll(path, "$", "")
	s = nonAlnum.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "json_value"
	}
	return "json_" + s
}
