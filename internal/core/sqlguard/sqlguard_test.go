package sqlguard

import (
	"testing"

	perr "datalens/internal/platform/errors"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		code perr.ErrorCode
		ok   bool
	}{
		{name: "plain select", sql: `SELECT "region", COUNT(*) FROM "light_table" GROUP BY "region"`, ok: true},
		{name: "trailing semicolon", sql: "SELECT a FROM t;", ok: true},
		{name: "keyword inside column name", sql: "SELECT updated_at, created_by FROM t", ok: true},
		{name: "keyword in string literal", sql: "SELECT a FROM t WHERE note = 'drop table x'", ok: true},
		{name: "keyword in quoted identifier", sql: `SELECT "delete" FROM t`, ok: true},
		{name: "keyword in comment", sql: "SELECT a FROM t -- delete later\n", ok: true},
		{name: "count star", sql: "SELECT COUNT(*) FROM t", ok: true},
		{name: "escaped quote", sql: "SELECT a FROM t WHERE b = 'it''s; drop'", ok: true},

		{name: "select star", sql: "select * from t", code: perr.ErrorCodeForbidden},
		{name: "select distinct star", sql: "SELECT DISTINCT * FROM t", code: perr.ErrorCodeForbidden},
		{name: "delete", sql: "DELETE FROM t", code: perr.ErrorCodeForbidden},
		{name: "insert mixed case", sql: "InSeRt INTO t VALUES (1)", code: perr.ErrorCodeForbidden},
		{name: "drop after comment", sql: "/* hi */ DROP TABLE t", code: perr.ErrorCodeForbidden},
		{name: "second statement", sql: "SELECT a FROM t; SELECT b FROM t", code: perr.ErrorCodeInvalidArgument},
		{name: "empty", sql: "   ", code: perr.ErrorCodeInvalidArgument},
		{name: "only comment", sql: "-- nothing", code: perr.ErrorCodeInvalidArgument},
		{name: "unterminated literal", sql: "SELECT 'abc FROM t", code: perr.ErrorCodeInvalidArgument},
		{name: "unterminated comment", sql: "SELECT a /* FROM t", code: perr.ErrorCodeInvalidArgument},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.sql)
			if tc.ok {
				if err != nil {
					t.Fatalf("Check(%q) = %v, want nil", tc.sql, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Check(%q) = nil, want error", tc.sql)
			}
			if got := perr.CodeOf(err); got != tc.code {
				t.Fatalf("Check(%q) code = %v, want %v", tc.sql, got, tc.code)
			}
		})
	}
}

func TestStatement_TrimsTerminator(t *testing.T) {
	got, err := Statement("  SELECT a FROM t ;  ")
	if err != nil {
		t.Fatalf("Statement error: %v", err)
	}
	if got != "SELECT a FROM t" {
		t.Fatalf("Statement = %q", got)
	}
}
