package handlers

import (
	"net/http"
	"time"
)

// Cookies de afinidad que el proxy de identidad deja en el browser. El
// logout estricto las borra todas; extras van por config.
var defaultAffinityCookies = []string{
	"AppServiceAuthSession",
	"ARRAffinity",
	"ARRAffinitySameSite",
}

// BuildDeletionCookie devuelve una cookie que "borra" la original del
// browser. Mismo nombre/domain/path para que el user-agent la sobreescriba.
func BuildDeletionCookie(name, domain string, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(), // pasado
		MaxAge:   -1,                    // eliminar
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if domain != "" {
		c.Domain = domain
	}
	return c
}

// clearAffinityCookies setea deletion cookies para los defaults del proxy
// más las configuradas, sin duplicar nombres.
func clearAffinityCookies(w http.ResponseWriter, extra []string, domain string, secure bool) {
	seen := make(map[string]struct{}, len(defaultAffinityCookies)+len(extra))
	for _, name := range append(append([]string{}, defaultAffinityCookies...), extra...) {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		http.SetCookie(w, BuildDeletionCookie(name, domain, secure))
	}
}
