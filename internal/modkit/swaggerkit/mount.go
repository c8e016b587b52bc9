// Package swaggerkit serves Swagger UI and the OpenAPI document for the API
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	phttp "datalens/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options controls the docs mount
type Options struct {
	Enabled bool
	// TitleSuffix is appended to info.title, e.g. the deployment name
	TitleSuffix string
	// BaseURL becomes the single OAS3 server entry; defaults to /api/v1
	BaseURL string
}

// Mount serves the UI under /api/docs/ and the OpenAPI document at /api/docs/doc.json
func Mount(r phttp.Router, opt Options) {
	if !opt.Enabled {
		return
	}
	base := opt.BaseURL
	if base == "" {
		base = "/api/v1"
	}
	title := strings.TrimSpace(opt.TitleSuffix)

	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w http.ResponseWriter, r *http.Request) {
		serveDocJSON(title, base).ServeHTTP(w, r)
	})
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("datalens"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

// defaultResponses documents the envelope every operation can answer with.
// Codes mirror platform/errors.
var defaultResponses = []struct {
	status  string
	desc    string
	example map[string]any
}{
	{"400", "Bad Request", map[string]any{
		"status_code": 400, "status": "Bad Request", "code": 8,
		"error": "granularity must be one of [minute hour day week month]",
	}},
	{"422", "Unprocessable Entity", map[string]any{
		"status_code": 422, "status": "Unprocessable Entity", "code": 7,
		"error": "unknown dataset \"iot_foo\"",
	}},
	{"500", "Internal Server Error", map[string]any{
		"status_code": 500, "status": "Internal Server Error", "code": 1,
		"error": "internal error",
	}},
	{"502", "Bad Gateway", map[string]any{
		"status_code": 502, "status": "Bad Gateway", "code": 13,
		"error": "druid query failed",
	}},
}

func decorate(spec map[string]any, titleSuffix, base string) {
	normalizeVersion(spec)
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": base}}
	}
	if titleSuffix != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if t, ok := info["title"].(string); ok {
				info["title"] = t + " " + titleSuffix
			}
		}
	}
	ensureEnvelopeSchema(spec)

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			for _, d := range defaultResponses {
				if _, exists := resps[d.status]; exists {
					continue
				}
				resps[d.status] = map[string]any{
					"description": d.desc,
					"content": map[string]any{
						"application/json": map[string]any{
							"schema":  map[string]any{"$ref": "#/components/schemas/Envelope"},
							"example": d.example,
						},
					},
				}
			}
		}
	}
}

// swagger http ui renders 3.0 only; swag emits 2.0
func normalizeVersion(spec map[string]any) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
		return
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
}

func ensureEnvelopeSchema(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["Envelope"]; ok {
		return
	}
	schemas["Envelope"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"data":        map[string]any{},
		},
		"required": []any{"status_code", "status"},
	}
}

func writeSpec(w http.ResponseWriter, spec map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}
