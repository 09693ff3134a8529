package http

import (
	"net/http"

	"github.com/ecommerce-admin/server/internal/model"
	"github.com/ecommerce-admin/server/internal/resource"
)

// resourceRoute lists which operations a kind exposes. The sets differ per
// kind on purpose: users are create-only and categories have no single GET.
type resourceRoute struct {
	kind   *resource.Kind
	path   string
	list   bool
	create bool
	get    bool
	update bool
	remove bool
}

var resourceRoutes = []resourceRoute{
	{kind: resource.User, path: "/users", create: true},
	{kind: resource.Product, path: "/products", list: true, create: true, get: true, update: true, remove: true},
	{kind: resource.Category, path: "/categories", list: true, create: true, update: true, remove: true},
	{kind: resource.Blog, path: "/blogs", list: true, create: true, get: true, update: true, remove: true},
}

func (api *AdminAPI) registerResource(mux *http.ServeMux, rt resourceRoute) {
	item := rt.path + "/{id}"
	if rt.list {
		mux.HandleFunc("GET "+rt.path, api.listHandler(rt.kind))
	}
	if rt.create {
		mux.HandleFunc("POST "+rt.path, api.createHandler(rt.kind))
	}
	if rt.get {
		mux.HandleFunc("GET "+item, api.getHandler(rt.kind))
	}
	if rt.update {
		mux.HandleFunc("PUT "+item, api.updateHandler(rt.kind))
	}
	if rt.remove {
		mux.HandleFunc("DELETE "+item, api.deleteHandler(rt.kind))
	}
}

func (api *AdminAPI) listHandler(kind *resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := api.opContext(r)
		defer cancel()

		docs, err := api.repo.List(ctx, kind.Collection(), nil)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]map[string]any, 0, len(docs))
		for _, doc := range docs {
			out = append(out, publicDocument(doc))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (api *AdminAPI) createHandler(kind *resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeJSON(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		doc, err := kind.Validate(payload)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx, cancel := api.opContext(r)
		defer cancel()

		id, err := api.repo.Create(ctx, kind.Collection(), doc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id})
	}
}

func (api *AdminAPI) getHandler(kind *resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := api.opContext(r)
		defer cancel()

		doc, err := api.repo.Get(ctx, kind.Collection(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, publicDocument(doc))
	}
}

// updateHandler accepts any JSON object and merges it into the record
// without schema validation.
func (api *AdminAPI) updateHandler(kind *resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeObject(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		normalized, err := resource.Normalize(payload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch, _ := normalized.(map[string]any)

		ctx, cancel := api.opContext(r)
		defer cancel()

		ok, err := api.repo.Update(ctx, kind.Collection(), r.PathValue("id"), model.Document(patch))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": ok})
	}
}

func (api *AdminAPI) deleteHandler(kind *resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := api.opContext(r)
		defer cancel()

		if err := api.repo.Delete(ctx, kind.Collection(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
