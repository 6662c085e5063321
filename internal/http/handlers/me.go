package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/authhub/internal/easyauth"
	httpx "github.com/dropDatabas3/authhub/internal/http"
	"github.com/dropDatabas3/authhub/internal/observability/logger"
)

// NewMeHandler expone el principal inyectado por el proxy.
// Sin header => {authenticated:false} con 200: anónimo es un estado válido.
// Header roto => 400 bad_principal: eso es el proxy mal configurado (o un
// spoofeo) y NO se degrada a anónimo en silencio.
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		h := easyauth.FromRequest(r)
		if h.Principal == "" {
			httpx.WriteJSON(w, http.StatusOK, easyauth.Session{Authenticated: false})
			return
		}
		p, err := easyauth.DecodePrincipal(h.Principal)
		if err != nil {
			if errors.Is(err, easyauth.ErrBadPrincipal) {
				logger.From(r.Context()).Error("principal ilegible", logger.Err(err))
				httpx.WriteError(w, http.StatusBadRequest, "bad_principal", "header de principal malformado", nil)
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "", nil)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, easyauth.Session{Authenticated: true, Principal: p})
	}
}
