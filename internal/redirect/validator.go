// Package redirect concentra la validación de origins y la construcción de
// URLs de redirect. Regla única: ningún string del caller se interpola en un
// Location sin pasar por el Validator.
package redirect

import (
	"net/url"
	"strings"
)

// Validator evalúa origins contra un allow-list configurado al arranque.
// Entradas soportadas:
//   - origin exacto: https://app.example.com (se compara case-insensitive,
//     sin trailing slash)
//   - wildcard de subdominios: *.example.com (matchea https://x.example.com
//     y el apex https://example.com; solo https, nunca evil-example.com)
//   - "*": cualquier origin (solo para dev; sigue echo-eando el origin real)
//
// Inmutable después de New: seguro para uso concurrente.
type Validator struct {
	exact     map[string]struct{}
	wildcards []string // registrable domains, en minúscula
	allowAny  bool

	// DefaultTarget es el destino fijo cuando un returnTo no pasa el check.
	defaultTarget string
}

func New(allowed []string, defaultTarget string) *Validator {
	v := &Validator{
		exact:         make(map[string]struct{}, len(allowed)),
		defaultTarget: strings.TrimRight(strings.TrimSpace(defaultTarget), "/"),
	}
	for _, a := range allowed {
		a = strings.TrimRight(strings.TrimSpace(strings.ToLower(a)), "/")
		switch {
		case a == "":
		case a == "*":
			v.allowAny = true
		case strings.HasPrefix(a, "*."):
			v.wildcards = append(v.wildcards, strings.TrimPrefix(a, "*."))
		default:
			v.exact[a] = struct{}{}
		}
	}
	return v
}

// OriginAllowed decide si un Origin puede recibir CORS con credenciales.
// Origin vacío => false (caller same-origin o no-browser: no fallamos el
// request, solo no emitimos headers CORS).
func (v *Validator) OriginAllowed(origin string) bool {
	origin = strings.TrimRight(strings.TrimSpace(strings.ToLower(origin)), "/")
	if origin == "" {
		return false
	}
	if v.allowAny {
		return true
	}
	if _, ok := v.exact[origin]; ok {
		return true
	}

	// El match de wildcard es solo para https: echo-ear credenciales a un
	// origin en claro regala la respuesta a cualquier on-path attacker.
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range v.wildcards {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// DefaultTarget es el destino de fallback para redirects.
func (v *Validator) DefaultTarget() string {
	return v.defaultTarget
}

// ResolveTarget valida un returnTo del caller y devuelve un destino seguro.
// returnTo vacío, relativo con "//", o con origin fuera del allow-list =>
// fallback al default. Nunca error: redirect es camino crítico de UX.
func (v *Validator) ResolveTarget(returnTo string) string {
	returnTo = strings.TrimSpace(returnTo)
	if returnTo == "" {
		return v.defaultTarget
	}

	// Path relativo same-origin: "/algo" sí, "//host" no (protocol-relative
	// es un open redirect clásico). Backslash tampoco: los browsers normalizan
	// "/\evil.com" a "//evil.com" antes de navegar.
	if strings.HasPrefix(returnTo, "/") {
		if strings.HasPrefix(returnTo, "//") || strings.Contains(returnTo, `\`) {
			return v.defaultTarget
		}
		return returnTo
	}

	u, err := url.Parse(returnTo)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return v.defaultTarget
	}
	if v.OriginAllowed(u.Scheme + "://" + u.Host) {
		return returnTo
	}
	return v.defaultTarget
}
