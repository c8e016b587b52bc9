package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"datalens/internal/adapters/exportstore"
	"datalens/internal/core/sqlguard"
	perr "datalens/internal/platform/errors"
	phttp "datalens/internal/platform/net/http"
	"datalens/internal/services/api/sqllab/domain"
)

type fakeSvc struct{ uploads bool }

func (fakeSvc) Execute(_ context.Context, in domain.QueryInput) (domain.ExecuteOutput, error) {
	stmt, err := sqlguard.Statement(in.SQL)
	return domain.ExecuteOutput{SQL: stmt}, err
}

func (fakeSvc) Export(context.Context, domain.QueryInput) (domain.Export, error) {
	return domain.Export{FileName: "query-results-2025-01-31.csv", Body: []byte("a\n\"1\""), Rows: 1}, nil
}

func (f fakeSvc) Upload(context.Context, domain.QueryInput) (domain.UploadOutput, error) {
	if !f.uploads {
		return domain.UploadOutput{}, perr.Unavailablef("export store is not configured")
	}
	return domain.UploadOutput{Object: exportstore.Object{Bucket: "b", Key: "k"}}, nil
}

func serve(t *testing.T, s fakeSvc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/sqllab", func(r phttp.Router) { Register(r, s) })
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestExecute(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"sql":"SELECT a FROM t"}`, http.StatusOK},
		{"select star", `{"sql":"SELECT * FROM t"}`, http.StatusForbidden},
		{"write", `{"sql":"DELETE FROM t"}`, http.StatusForbidden},
		{"two statements", `{"sql":"SELECT a FROM t; SELECT b FROM t"}`, http.StatusUnprocessableEntity},
		{"missing sql", `{}`, http.StatusBadRequest},
		{"unknown field", `{"query":"SELECT a FROM t"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, fakeSvc{}, "/sqllab/execute", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestExport_WritesCSV(t *testing.T) {
	rec := serve(t, fakeSvc{}, "/sqllab/export", `{"sql":"SELECT a FROM t"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "query-results-2025-01-31.csv") {
		t.Fatalf("disposition = %q", cd)
	}
	if rec.Body.String() != "a\n\"1\"" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestUpload(t *testing.T) {
	if rec := serve(t, fakeSvc{}, "/sqllab/export/s3", `{"sql":"SELECT a FROM t"}`); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec := serve(t, fakeSvc{uploads: true}, "/sqllab/export/s3", `{"sql":"SELECT a FROM t"}`); rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}
