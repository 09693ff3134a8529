package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	logx "github.com/ecommerce-admin/server/pkg/logger"
)

type errorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Issues  []errx.Issue `json:"issues,omitempty"`
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(w http.ResponseWriter, r *http.Request) (any, error) {
	if r == nil || r.Body == nil {
		return nil, errx.Validation(errx.Issue{Location: "#", Message: "request body required"})
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, bodyError(err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return nil, bodyError(err)
	}
	return payload, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return errx.New(err, http.StatusRequestEntityTooLarge, errx.CodePayloadTooLarge, errx.PayloadTooLargeMessage)
	case err == io.EOF:
		return errx.Validation(errx.Issue{Location: "#", Message: "request body required"})
	default:
		return errx.Validation(errx.Issue{Location: "#", Message: "invalid JSON: " + err.Error()})
	}
}

// decodeObject reads a JSON object body.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	payload, err := decodeJSON(w, r)
	if err != nil {
		return nil, err
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, errx.Validation(errx.Issue{Location: "#", Message: "expected a JSON object"})
	}
	return obj, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errx.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		logx.Error().Err(err).
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, appErr.Status, errorResponse{
		Error:   appErr.Code,
		Message: appErr.Message,
		Issues:  appErr.Issues,
	})
}

// publicDocument copies a stored document for the wire, rendering the
// store-native identifier as a plain string.
func publicDocument(doc model.Document) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = value
	}
	if id, ok := doc[model.FieldID]; ok {
		out[model.FieldID] = stringID(id)
	}
	return out
}

func stringID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case interface{ Hex() string }:
		return v.Hex()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
