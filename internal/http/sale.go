package http

import (
	"errors"
	"net/http"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	"github.com/ecommerce-admin/server/internal/resource"
)

func defaultSaleConfig() map[string]any {
	return map[string]any{
		"global_sale_active":      false,
		"global_discount_percent": 0,
		"product_sales":           map[string]any{},
	}
}

// handleGetSale returns the singleton configuration, or its zero value
// when none has been saved yet. Nothing is written on read.
func (api *AdminAPI) handleGetSale(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.opContext(r)
	defer cancel()

	doc, err := api.repo.FindOne(ctx, resource.SaleConfig.Collection())
	if err != nil {
		if errors.Is(err, errx.ErrNotFound) {
			writeJSON(w, http.StatusOK, defaultSaleConfig())
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicSaleConfig(doc))
}

func publicSaleConfig(doc model.Document) map[string]any {
	out := publicDocument(doc)
	delete(out, model.FieldID)

	sales := map[string]any{}
	if raw, ok := doc["product_sales"].(map[string]any); ok {
		for key, value := range raw {
			sales[key] = value
		}
	}
	out["product_sales"] = sales
	return out
}

func (api *AdminAPI) handlePutSale(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeJSON(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := resource.SaleConfig.Validate(payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := api.opContext(r)
	defer cancel()

	if err := api.repo.Upsert(ctx, resource.SaleConfig.Collection(), doc); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
