package http

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description,omitempty"`
	Details          json.RawMessage `json:"details,omitempty"`
	RequestID        string          `json:"request_id,omitempty"`
}

// WriteError escribe un error JSON con código estable machine-readable.
// details es passthrough opaco (ej: el body de error del IdP en obo_failed).
func WriteError(w http.ResponseWriter, status int, code, desc string, details json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		Details:          details,
		RequestID:        rid,
	})
}

// WriteJSON: respuesta JSON estándar
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
