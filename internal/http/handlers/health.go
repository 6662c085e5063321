package handlers

import (
	"net/http"

	httpx "github.com/dropDatabas3/authhub/internal/http"
)

// NewHealthHandler responde el liveness check. Siempre {ok:true}: el gateway
// no tiene dependencias propias que chequear (el IdP se prueba recién en el
// exchange y el proxy está delante nuestro, no detrás).
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
