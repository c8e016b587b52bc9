package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"datalens/internal/core/querygen"
	perr "datalens/internal/platform/errors"
	phttp "datalens/internal/platform/net/http"
	"datalens/internal/services/api/charts/domain"
)

type fakeSvc struct {
	lastList domain.ListQuery
	deleted  string
}

func (f *fakeSvc) Build(_ context.Context, d querygen.Draft) (domain.BuildOutput, error) {
	sql, err := querygen.Build(d)
	return domain.BuildOutput{SQL: sql}, err
}

func (f *fakeSvc) Validate(context.Context, querygen.Draft) (domain.ValidateOutput, error) {
	return domain.ValidateOutput{OK: true}, nil
}

func (f *fakeSvc) Preview(context.Context, querygen.Draft) (domain.PreviewOutput, error) {
	return domain.PreviewOutput{}, perr.Upstreamf("druid down")
}

func (f *fakeSvc) Save(_ context.Context, in domain.SaveInput) (domain.Chart, error) {
	return domain.Chart{ID: "c1", Name: in.Draft.Name}, nil
}

func (f *fakeSvc) List(_ context.Context, q domain.ListQuery) ([]domain.Chart, error) {
	f.lastList = q
	return []domain.Chart{}, nil
}

func (f *fakeSvc) Get(_ context.Context, id string) (domain.Chart, error) {
	return domain.Chart{ID: id}, nil
}

func (f *fakeSvc) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

func serve(t *testing.T, s *fakeSvc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/charts", func(r phttp.Router) { Register(r, s) })

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		inBody string
	}{
		{"build", http.MethodPost, "/charts/build", `{"dataset":"light_table","dimensions":["region"],"metrics":["COUNT"]}`, http.StatusOK, `COUNT(*) as count_total`},
		{"build invalid", http.MethodPost, "/charts/build", `{"metrics":["COUNT"]}`, http.StatusUnprocessableEntity, `dataset is required`},
		{"build unknown field", http.MethodPost, "/charts/build", `{"dataset":"x","xaxis":"a"}`, http.StatusBadRequest, ``},
		{"validate", http.MethodPost, "/charts/validate", `{"dataset":"x"}`, http.StatusOK, `"ok":true`},
		{"preview upstream", http.MethodPost, "/charts/preview", `{"dataset":"x"}`, http.StatusBadGateway, `druid down`},
		{"save", http.MethodPost, "/charts", `{"draft":{"name":"n","dataset":"x"}}`, http.StatusCreated, `"id":"c1"`},
		{"save bad service", http.MethodPost, "/charts", `{"draft":{"name":"n"},"service":"billing"}`, http.StatusBadRequest, ``},
		{"list", http.MethodGet, "/charts", ``, http.StatusOK, ``},
		{"list bad day", http.MethodGet, "/charts?from=03-04-2025", ``, http.StatusUnprocessableEntity, `from must be YYYY-MM-DD`},
		{"get", http.MethodGet, "/charts/abc", ``, http.StatusOK, `"id":"abc"`},
		{"delete", http.MethodDelete, "/charts/abc", ``, http.StatusNoContent, ``},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, &fakeSvc{}, tc.method, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.inBody != "" && !strings.Contains(rec.Body.String(), tc.inBody) {
				t.Fatalf("body %s does not contain %s", rec.Body.String(), tc.inBody)
			}
		})
	}
}

func TestList_ParsesQuery(t *testing.T) {
	s := &fakeSvc{}
	rec := serve(t, s, http.MethodGet, "/charts?q=temp&types=bar,%20line-chart,&from=2025-03-01&to=2025-03-04", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	q := s.lastList
	if q.Q != "temp" || len(q.Types) != 2 || q.Types[1] != "line-chart" {
		t.Fatalf("unexpected query %+v", q)
	}
	if !q.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) || !q.To.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %v..%v", q.From, q.To)
	}

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestDelete_PassesID(t *testing.T) {
	s := &fakeSvc{}
	serve(t, s, http.MethodDelete, "/charts/6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11", "")
	if s.deleted != "6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11" {
		t.Fatalf("deleted = %q", s.deleted)
	}
}
