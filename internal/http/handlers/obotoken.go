package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/authhub/internal/app"
	"github.com/dropDatabas3/authhub/internal/easyauth"
	httpx "github.com/dropDatabas3/authhub/internal/http"
	"github.com/dropDatabas3/authhub/internal/oauth/obo"
	"github.com/dropDatabas3/authhub/internal/observability/logger"
)

// NewOboTokenHandler cambia el id token entrante por un access token con
// otra audiencia (exchange on-behalf-of server-side). Mapa de fallas:
//
//	sin id token            -> 401 no_token
//	config OBO incompleta   -> 503 config_missing (las otras rutas siguen vivas)
//	IdP respondió non-2xx   -> 500 obo_failed + body del IdP en details
//	transporte/timeout      -> 500 obo_exception genérico; detalle solo en logs
func NewOboTokenHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		log := logger.From(r.Context()).With(logger.Op("obotoken"))

		if c.Exchanger == nil {
			log.Error("exchange pedido sin config OBO (tenant/client/secret)")
			httpx.WriteError(w, http.StatusServiceUnavailable, "config_missing", "OBO no configurado en este deployment", nil)
			return
		}

		h := easyauth.FromRequest(r)
		tk, err := c.Exchanger.Exchange(r.Context(), h.IDToken)
		if err != nil {
			var pe *obo.ProviderError
			var te *obo.TransportError
			switch {
			case errors.Is(err, obo.ErrNoToken):
				httpx.ObserveOBO("no_token")
				httpx.WriteError(w, http.StatusUnauthorized, "no_token", "el proxy no inyectó id token", nil)
			case errors.As(err, &pe):
				httpx.ObserveOBO("rejected")
				log.Error("IdP rechazó el exchange",
					logger.Status(pe.Status),
					logger.Any("provider_error", pe.Code),
				)
				httpx.WriteError(w, http.StatusInternalServerError, "obo_failed", pe.Description, pe.Body)
			case errors.As(err, &te):
				httpx.ObserveOBO("transport")
				// el detalle del transporte queda server-side; al caller
				// solo el código genérico
				log.Error("exchange falló en transporte", logger.Err(te.Err))
				httpx.WriteError(w, http.StatusInternalServerError, "obo_exception", "error hablando con el IdP", nil)
			default:
				httpx.ObserveOBO("transport")
				log.Error("exchange falló", logger.Err(err))
				httpx.WriteError(w, http.StatusInternalServerError, "obo_exception", "error hablando con el IdP", nil)
			}
			return
		}

		httpx.ObserveOBO("ok")
		w.Header().Set("Cache-Control", "no-store")
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"accessToken": tk.AccessToken})
	}
}
