package querygen

import (
	"strings"
	"testing"

	perr "datalens/internal/platform/errors"
)

func TestBuild_CountByRegion(t *testing.T) {
	d := Draft{
		Dataset:    "light_table",
		Dimensions: []string{"region"},
		Metrics:    []Metric{MetricCount},
		RowLimit:   250,
	}
	got, err := Build(d)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	want := `SELECT "region", COUNT(*) as count_total FROM "light_table" GROUP BY "region" LIMIT 250`
	if got != want {
		t.Fatalf("Build =\n%s\nwant\n%s", got, want)
	}
}

func TestBuild_Table(t *testing.T) {
	tests := []struct {
		name     string
		draft    Draft
		contains []string
		absent   []string
	}{
		{
			name: "sum on string column becomes count",
			draft: Draft{
				Dataset:       "light_table",
				Dimensions:    []string{"region"},
				Metrics:       []Metric{MetricSum},
				MetricColumns: map[Metric]string{MetricSum: "device_name"},
			},
			contains: []string{"COUNT(*) as count_total"},
			absent:   []string{"SUM("},
		},
		{
			name: "avg on json column becomes count",
			draft: Draft{
				Dataset:       "light_table",
				Metrics:       []Metric{MetricAvg},
				MetricColumns: map[Metric]string{MetricAvg: "$.temp"},
			},
			contains: []string{"COUNT(*) as count_total"},
			absent:   []string{"AVG("},
		},
		{
			name: "sum on typed number column is kept",
			draft: Draft{
				Dataset:       "light_table",
				Metrics:       []Metric{MetricSum},
				MetricColumns: map[Metric]string{MetricSum: "amount"},
				Columns:       []Column{{Name: "amount", Type: ColumnNumber}},
			},
			contains: []string{`SUM("amount") as sum_total`},
		},
		{
			name: "sum on time column is kept",
			draft: Draft{
				Dataset:       "ds",
				Dimensions:    []string{"region"},
				Metrics:       []Metric{MetricSum},
				MetricColumns: map[Metric]string{MetricSum: "__time"},
			},
			contains: []string{`SELECT "region", SUM("__time") as sum_total FROM "ds" GROUP BY "region"`},
			absent:   []string{"COUNT(*)"},
		},
		{
			name: "max on json column casts to double",
			draft: Draft{
				Dataset:       "light_table",
				Metrics:       []Metric{MetricMax},
				MetricColumns: map[Metric]string{MetricMax: "$.temp"},
			},
			contains: []string{`MAX(CAST(JSON_VALUE("ext", '$.temp') AS DOUBLE)) as max_total`},
		},
		{
			name: "min on string column stays min",
			draft: Draft{
				Dataset:       "light_table",
				Metrics:       []Metric{MetricMin},
				MetricColumns: map[Metric]string{MetricMin: "site"},
			},
			contains: []string{`MIN("site") as min_total`},
		},
		{
			name: "unbound metric falls back to id",
			draft: Draft{
				Dataset: "light_table",
				Metrics: []Metric{MetricMax},
			},
			contains: []string{`MAX("id") as max_total`},
		},
		{
			name: "time x-axis adds trailing window",
			draft: Draft{
				Dataset: "light_table",
				XAxis:   "__time",
				Metrics: []Metric{MetricCount},
			},
			contains: []string{`WHERE "__time" >= CURRENT_TIMESTAMP - INTERVAL '365' DAY`, `GROUP BY "__time"`},
		},
		{
			name: "string x-axis has no window",
			draft: Draft{
				Dataset: "light_table",
				XAxis:   "region",
				Metrics: []Metric{MetricCount},
			},
			absent: []string{"WHERE", "INTERVAL"},
		},
		{
			name: "filters become not null and join with and",
			draft: Draft{
				Dataset: "light_table",
				XAxis:   "__time",
				Filters: []string{"region", "$.site", "region"},
			},
			contains: []string{
				`WHERE "__time" >= CURRENT_TIMESTAMP - INTERVAL '365' DAY AND "region" IS NOT NULL AND JSON_VALUE("ext", '$.site') IS NOT NULL LIMIT`,
			},
		},
		{
			name: "no metrics means no group by",
			draft: Draft{
				Dataset:    "light_table",
				Dimensions: []string{"region"},
			},
			contains: []string{`SELECT "region" FROM "light_table" LIMIT 10000`},
			absent:   []string{"GROUP BY"},
		},
		{
			name: "dimensions dedupe and skip the x-axis",
			draft: Draft{
				Dataset:    "light_table",
				XAxis:      "region",
				Dimensions: []string{"region", "site", "site"},
				Metrics:    []Metric{MetricCount},
			},
			contains: []string{`SELECT "region", "site", COUNT(*) as count_total`, `GROUP BY "region", "site"`},
		},
		{
			name: "sort without x-axis uses first dimension",
			draft: Draft{
				Dataset:    "light_table",
				Dimensions: []string{"site", "region"},
				Metrics:    []Metric{MetricCount},
				SortBy:     true,
			},
			contains: []string{`ORDER BY "site" ASC LIMIT`},
		},
		{
			name: "sort flag off means no order by",
			draft: Draft{
				Dataset:    "light_table",
				Dimensions: []string{"site"},
				Metrics:    []Metric{MetricCount},
			},
			absent: []string{"ORDER BY"},
		},
		{
			name: "sort with nothing to order by is dropped",
			draft: Draft{
				Dataset: "light_table",
				Metrics: []Metric{MetricCount},
				SortBy:  true,
			},
			absent: []string{"ORDER BY"},
		},
		{
			name: "sort by metric orders by the alias",
			draft: Draft{
				Dataset:       "light_table",
				XAxis:         "region",
				Metrics:       []Metric{MetricMax, MetricCount},
				MetricColumns: map[Metric]string{MetricMax: "site"},
				SortBy:        true,
				SortMode:      SortMetric,
			},
			contains: []string{`ORDER BY max_total DESC`},
		},
		{
			name: "quotes in identifiers are doubled",
			draft: Draft{
				Dataset:    `odd"table`,
				Dimensions: []string{`we"ird`},
			},
			contains: []string{`SELECT "we""ird" FROM "odd""table"`},
		},
		{
			name: "quotes in json paths are doubled",
			draft: Draft{
				Dataset:    "light_table",
				Dimensions: []string{`$.it's`},
			},
			contains: []string{`JSON_VALUE("ext", '$.it''s') AS json_it_s`},
		},
		{
			name:     "empty draft counts rows",
			draft:    Draft{Dataset: "light_table"},
			contains: []string{`SELECT COUNT(*) as total_count FROM "light_table" LIMIT 10000`},
		},
		{
			name: "colliding json aliases get suffixes",
			draft: Draft{
				Dataset:    "light_table",
				Dimensions: []string{"$.a.b", "$.a_b"},
			},
			contains: []string{"AS json_a_b,", "AS json_a_b_2 FROM"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := Build(tc.draft)
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			for _, s := range tc.contains {
				if !strings.Contains(got, s) {
					t.Fatalf("Build = %s\nmissing %q", got, s)
				}
			}
			for _, s := range tc.absent {
				if strings.Contains(got, s) {
					t.Fatalf("Build = %s\nunexpected %q", got, s)
				}
			}
		})
	}
}

func TestBuild_JSONColumnsNeverBareIdentifiers(t *testing.T) {
	d := Draft{
		Dataset:    "druid-test",
		XAxis:      "$.device.id",
		Dimensions: []string{"$.site"},
		Metrics:    []Metric{MetricCount},
		SortBy:     true,
	}
	got, err := Build(d)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for _, bad := range []string{`"$.device.id"`, `"$.site"`} {
		if strings.Contains(got, bad) {
			t.Fatalf("bare identifier %s in %s", bad, got)
		}
	}
	for _, want := range []string{
		`JSON_VALUE("ext", '$.device.id') AS json_device_id`,
		`GROUP BY JSON_VALUE("ext", '$.device.id'), JSON_VALUE("ext", '$.site')`,
		`ORDER BY JSON_VALUE("ext", '$.device.id') ASC`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Build = %s\nmissing %q", got, want)
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	d := Draft{
		Dataset:       "light_table",
		XAxis:         "__time",
		Dimensions:    []string{"$.a", "b"},
		Metrics:       []Metric{MetricSum, MetricMax, MetricCount},
		MetricColumns: map[Metric]string{MetricSum: "b", MetricMax: "$.a"},
		Filters:       []string{"b"},
		SortBy:        true,
	}
	first, err := Build(d)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Build(d)
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		if again != first {
			t.Fatalf("Build not stable:\n%s\n%s", first, again)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{name: "missing dataset", draft: Draft{}, field: "dataset"},
		{name: "unknown metric", draft: Draft{Dataset: "x", Metrics: []Metric{"MEDIAN"}}, field: "metrics"},
		{name: "unknown sort mode", draft: Draft{Dataset: "x", SortMode: "random"}, field: "sort_mode"},
		{name: "empty dimension", draft: Draft{Dataset: "x", Dimensions: []string{""}}, field: "dimensions"},
		{name: "empty filter", draft: Draft{Dataset: "x", Filters: []string{""}}, field: "filters"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.draft)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				t.Fatalf("code = %v, want invalid argument", perr.CodeOf(err))
			}
			e, _ := perr.As(err)
			if e.Field() != tc.field {
				t.Fatalf("field = %q, want %q", e.Field(), tc.field)
			}
		})
	}
}

func TestJSONAlias(t *testing.T) {
	tests := map[string]string{
		"$.device.id":  "json_device_id",
		"$[0].astID":   "json_0_astID",
		"$":            "json_value",
		"$..deep..x_y": "json_deep_x_y",
	}
	for in, want := range tests {
		if got := JSONAlias(in); got != want {
			t.Fatalf("JSONAlias(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]ColumnType{
		"__time":      ColumnTime,
		"$.__time":    ColumnTime,
		"$.device.id": ColumnJSON,
		"region":      ColumnString,
	}
	for in, want := range tests {
		if got := Classify(in); got != want {
			t.Fatalf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}
