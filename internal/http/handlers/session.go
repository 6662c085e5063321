package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/authhub/internal/easyauth"
	httpx "github.com/dropDatabas3/authhub/internal/http"
	"github.com/dropDatabas3/authhub/internal/observability/logger"
)

// NewSessionHandler devuelve el snapshot de sesión: principal + expiry.
// A diferencia de /api/me, acá sin sesión se responde 401 (es el endpoint
// que los SPAs usan para decidir si redirigir a /login).
func NewSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		h := easyauth.FromRequest(r)
		s, err := easyauth.SessionFrom(h)
		if err != nil {
			if errors.Is(err, easyauth.ErrBadPrincipal) {
				logger.From(r.Context()).Error("principal ilegible", logger.Err(err))
				httpx.WriteError(w, http.StatusBadRequest, "bad_principal", "header de principal malformado", nil)
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "", nil)
			return
		}
		if !s.Authenticated {
			httpx.WriteJSON(w, http.StatusUnauthorized, s)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		httpx.WriteJSON(w, http.StatusOK, s)
	}
}
