package http

import (
	"net/http"

	"github.com/ecommerce-admin/server/internal/resource"
)

func (api *AdminAPI) handleSchema(w http.ResponseWriter, r *http.Request) {
	kinds := resource.All()
	collections := make([]string, 0, len(kinds))
	models := make(map[string]any, len(kinds))
	for _, k := range kinds {
		collections = append(collections, k.Name)
		models[k.Name] = k.JSONSchema()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"collections": collections,
		"models":      models,
	})
}
