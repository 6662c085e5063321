package handlers

import (
	"net/http"

	"github.com/dropDatabas3/authhub/internal/easyauth"
	httpx "github.com/dropDatabas3/authhub/internal/http"
)

// Relay liso de los tokens que inyecta el proxy: sin llamada de red, sin
// validación más allá de presencia (la frontera de confianza es el proxy).
// Falta de token => 401 no_token: es un error esperable del caller, no un
// problema de infraestructura.

func NewTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		h := easyauth.FromRequest(r)
		if h.AccessToken == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "no_token", "el proxy no inyectó access token", nil)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"accessToken": h.AccessToken})
	}
}

func NewIDTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		h := easyauth.FromRequest(r)
		if h.IDToken == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "no_token", "el proxy no inyectó id token", nil)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"idToken": h.IDToken})
	}
}
