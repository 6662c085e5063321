package handlers

import (
	"net/http"

	"github.com/dropDatabas3/authhub/internal/app"
	httpx "github.com/dropDatabas3/authhub/internal/http"
	"github.com/dropDatabas3/authhub/internal/observability/logger"
)

// NewLogoutHandler es el logout estricto: borra las cookies de afinidad y
// redirige vía el IdP para invalidar la sesión de verdad. Un logout
// solo-local deja los access tokens ya emitidos vivos hasta su expiry.
func NewLogoutHandler(c *app.Container) http.HandlerFunc {
	return logoutHandler(c, false)
}

// NewLocalLogoutHandler es la variante débil (/logout/local): solo el proxy
// olvida la sesión. Existe para flujos donde el round-trip al IdP molesta;
// la garantía es menor y está documentado así.
func NewLocalLogoutHandler(c *app.Container) http.HandlerFunc {
	return logoutHandler(c, true)
}

func logoutHandler(c *app.Container, localOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "solo GET", nil)
			return
		}
		target := c.Validator.ResolveTarget(r.URL.Query().Get("returnTo"))

		clearAffinityCookies(w, c.Cfg.Proxy.AffinityCookies, c.Cfg.Proxy.CookieDomain, isSecure(r))

		var loc string
		if localOnly {
			loc = c.Builder.LocalLogoutURL(target)
		} else {
			loc = c.Builder.LogoutURL(target)
		}
		logger.From(r.Context()).Debug("logout redirect",
			logger.Target(target),
			logger.Any("local_only", localOnly),
		)
		http.Redirect(w, r, loc, http.StatusFound)
	}
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
