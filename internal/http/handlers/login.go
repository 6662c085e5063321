package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/authhub/internal/app"
	httpx "github.com/dropDatabas3/authhub/internal/http"
	"github.com/dropDatabas3/authhub/internal/observability/logger"
)

// NewLoginHandler redirige al login del proxy de identidad.
//   - returnTo se valida contra el allow-list; si no pasa, fallback al
//     default configurado (nunca 4xx: redirect es camino crítico de UX).
//   - ?fresh=1 fuerza re-autenticación (prompt=login) en vez de reusar la
//     sesión cacheada del proxy.
//   - nonce uuid por request para que proxies intermedios no cacheen la
//     página de login.
func NewLoginHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		target := c.Validator.ResolveTarget(r.URL.Query().Get("returnTo"))
		fresh := r.URL.Query().Get("fresh") == "1"

		loc := c.Builder.LoginURL(target, uuid.NewString(), fresh)
		logger.From(r.Context()).Debug("login redirect", logger.Target(target))
		http.Redirect(w, r, loc, http.StatusFound)
	}
}
