package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/authhub/internal/redirect"
)

func corsHandler() http.Handler {
	v := redirect.New([]string{"https://app.example.com", "*.widgets.dev"}, "https://app.example.com")
	return Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	}), WithRequestID(), WithCORS(v))
}

func TestWithCORS_EchoDelOriginPermitido(t *testing.T) {
	h := corsHandler()
	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin: %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("falta allow-credentials")
	}
	if vary := w.Header().Values("Vary"); len(vary) < 3 {
		t.Fatalf("Vary incompleto: %v", vary)
	}
}

func TestWithCORS_FallbackAlReferer(t *testing.T) {
	h := corsHandler()
	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("Referer", "https://a.widgets.dev/alguna/pagina?x=1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://a.widgets.dev" {
		t.Fatalf("allow-origin vía referer: %q", got)
	}
}

func TestWithCORS_PreflightSiempre204SinBody(t *testing.T) {
	h := corsHandler()
	// incluso con origin no permitido el preflight corta en 204
	for _, origin := range []string{"https://app.example.com", "https://evil.example", ""} {
		r := httptest.NewRequest("OPTIONS", "/x", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != 204 || w.Body.Len() != 0 {
			t.Fatalf("preflight origin=%q: code=%d body=%q", origin, w.Code, w.Body.String())
		}
	}
}

func TestWithCORS_OriginRechazadoNoRecibeHeaders(t *testing.T) {
	h := corsHandler()
	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("origin rechazado no debe recibir allow-origin")
	}
	if w.Code != 200 {
		t.Fatalf("el request no falla por el origin: %d", w.Code)
	}
}

func TestWithRequestID_GeneraYPropaga(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), WithRequestID())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("debe generar request id")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "rid-cliente")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Header().Get("X-Request-ID") != "rid-cliente" {
		t.Fatal("debe propagar el request id del cliente")
	}
}

func TestWithRecover_Convierte500(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithRequestID(), WithRecover())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != 500 {
		t.Fatalf("esperaba 500, got %d", w.Code)
	}
}

func TestWithSecurityHeaders(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), WithSecurityHeaders())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("falta nosniff")
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS solo sobre https")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("falta HSTS detrás de proxy https")
	}
}
