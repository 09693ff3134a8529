package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ecommerce-admin/server/internal/model"
)

// Diagnostics carries configuration facts reported by GET /test.
type Diagnostics struct {
	DatabaseURLSet bool
	DatabaseName   string
}

// AdminAPI registers the admin endpoints on a mux.
type AdminAPI struct {
	repo        model.Repository
	diagnostics Diagnostics
	opTimeout   time.Duration
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI backed by repo.
func NewAdminAPI(repo model.Repository, opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		repo:      repo,
		opTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithDiagnostics sets the facts reported by the diagnostic endpoint.
func WithDiagnostics(d Diagnostics) AdminOption {
	return func(api *AdminAPI) {
		api.diagnostics = d
	}
}

// WithOperationTimeout bounds every repository call made by a handler.
func WithOperationTimeout(d time.Duration) AdminOption {
	return func(api *AdminAPI) {
		if d > 0 {
			api.opTimeout = d
		}
	}
}

// Register mounts every route on mux.
func (api *AdminAPI) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", api.handleRoot)
	mux.HandleFunc("GET /schema", api.handleSchema)
	mux.HandleFunc("GET /test", api.handleDiagnostics)

	for _, rt := range resourceRoutes {
		api.registerResource(mux, rt)
	}

	mux.HandleFunc("GET /sale", api.handleGetSale)
	mux.HandleFunc("PUT /sale", api.handlePutSale)
}

// Handler returns the routes wrapped in request id, access log, CORS and
// panic recovery middleware.
func (api *AdminAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux)
	return withRequestID(withAccessLog(withCORS(withRecover(mux))))
}

func (api *AdminAPI) opContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), api.opTimeout)
}

func (api *AdminAPI) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "E-commerce Admin Backend Running"})
}
