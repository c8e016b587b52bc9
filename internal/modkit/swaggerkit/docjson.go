//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"

	"github.com/swaggo/swag/v2"

	// registers the "datalens" instance; generate with
	// swag init -g cmd/datalens-api/main.go -o internal/services/api/docs --instanceName datalens
	_ "datalens/internal/services/api/docs"
)

var docReader = func() (string, error) { return swag.ReadDoc("datalens") }

func serveDocJSON(title, base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := docReader()
		if err != nil {
			http.Error(w, "spec not registered", http.StatusInternalServerError)
			return
		}
		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		decorate(spec, title, base)
		writeSpec(w, spec)
	}
}
