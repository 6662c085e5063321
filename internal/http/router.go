package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/authhub/internal/redirect"
)

// Handlers agrupa los http.HandlerFunc que el router cablea. Los construye
// el paquete handlers; acá solo se montan (evita el import cycle con httpx).
type Handlers struct {
	Health      http.HandlerFunc
	Login       http.HandlerFunc
	Logout      http.HandlerFunc
	LocalLogout http.HandlerFunc
	Me          http.HandlerFunc
	Token       http.HandlerFunc
	IDToken     http.HandlerFunc
	Session     http.HandlerFunc
	OboToken    http.HandlerFunc
	Metrics     http.Handler
}

// NewRouter arma el router del gateway con la cadena de middlewares.
// Orden: RequestID -> Logging -> Recover -> Metrics -> SecurityHeaders ->
// CORS. CORS va último para que el preflight 204 igual quede logueado y
// contado.
func NewRouter(h Handlers, v *redirect.Validator) http.Handler {
	r := chi.NewRouter()

	r.Use(
		WithRequestID(),
		WithLogging(),
		WithRecover(),
		WithMetrics(),
		WithSecurityHeaders(),
		WithCORS(v),
	)

	r.Get("/health", h.Health)
	r.Get("/healthz", h.Health)

	r.Get("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Get("/logout/local", h.LocalLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/me", h.Me)
		r.Get("/token", h.Token)
		r.Get("/idtoken", h.IDToken)
		r.Get("/session", h.Session)
		r.Get("/obotoken", h.OboToken)
	})

	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	return r
}
