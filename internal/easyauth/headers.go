// Package easyauth adapta los headers que inyecta el proxy de identidad
// (Azure App Service "Easy Auth" o equivalente) en requests ya autenticados.
//
// Frontera de confianza: el proxy ya validó la sesión y la firma de los
// tokens antes de inyectar estos headers. Este paquete es el ÚNICO lugar
// del gateway que conoce los nombres x-ms-*; el resto del código consume
// ProxyHeaders y puede mockearlo en tests.
package easyauth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Nombres de header inyectados por el proxy. aad es el provider default;
// el sufijo del token varía por provider pero el principal no.
const (
	HeaderPrincipal   = "X-Ms-Client-Principal"
	HeaderAccessToken = "X-Ms-Token-Aad-Access-Token"
	HeaderIDToken     = "X-Ms-Token-Aad-Id-Token"
	HeaderExpiresOn   = "X-Ms-Token-Aad-Expires-On"
)

// ProxyHeaders es la vista tipada de los headers del proxy para un request.
// Valores vacíos significan "el proxy no lo inyectó" (request anónimo o
// token no configurado en el proxy).
type ProxyHeaders struct {
	Principal   string // base64(JSON) del ClientPrincipal
	AccessToken string
	IDToken     string
	ExpiresOn   string // RFC3339 o epoch-seconds, según versión del proxy
}

// FromRequest lee los headers del proxy de un request entrante.
func FromRequest(r *http.Request) ProxyHeaders {
	return ProxyHeaders{
		Principal:   strings.TrimSpace(r.Header.Get(HeaderPrincipal)),
		AccessToken: strings.TrimSpace(r.Header.Get(HeaderAccessToken)),
		IDToken:     strings.TrimSpace(r.Header.Get(HeaderIDToken)),
		ExpiresOn:   strings.TrimSpace(r.Header.Get(HeaderExpiresOn)),
	}
}

// ExpiresAtMillis resuelve el vencimiento de la sesión en epoch millis.
// Orden: header expires-on (RFC3339 o epoch-seconds) y, si falta, el claim
// exp del id token SIN verificar firma (es metadata de display; la firma ya
// la validó el proxy y este gateway no valida firmas por diseño).
// Retorna (0, false) si no hay de dónde sacarlo.
func (h ProxyHeaders) ExpiresAtMillis() (int64, bool) {
	if h.ExpiresOn != "" {
		if t, err := time.Parse(time.RFC3339, h.ExpiresOn); err == nil {
			return t.UnixMilli(), true
		}
		if secs, err := strconv.ParseInt(h.ExpiresOn, 10, 64); err == nil && secs > 0 {
			return secs * 1000, true
		}
	}
	if h.IDToken != "" {
		var claims jwtv5.RegisteredClaims
		parser := jwtv5.NewParser()
		if _, _, err := parser.ParseUnverified(h.IDToken, &claims); err == nil && claims.ExpiresAt != nil {
			return claims.ExpiresAt.UnixMilli(), true
		}
	}
	return 0, false
}
