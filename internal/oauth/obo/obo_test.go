package obo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestExchanger(endpoint string) *Exchanger {
	return New(Config{
		TenantID:      "tenant-1",
		ClientID:      "client-1",
		ClientSecret:  "s3cr3t",
		Scope:         "api://client-1/.default",
		TokenEndpoint: endpoint,
		Timeout:       2 * time.Second,
	})
}

func TestExchange_SinAssertion(t *testing.T) {
	x := newTestExchanger("http://127.0.0.1:0/nope")
	_, err := x.Exchange(context.Background(), "   ")
	require.ErrorIs(t, err, ErrNoToken)
}

func TestExchange_OK(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":          r.PostFormValue("grant_type"),
			"requested_token_use": r.PostFormValue("requested_token_use"),
			"assertion":           r.PostFormValue("assertion"),
			"client_id":           r.PostFormValue("client_id"),
			"client_secret":       r.PostFormValue("client_secret"),
			"scope":               r.PostFormValue("scope"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"X","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	x := newTestExchanger(srv.URL)
	tk, err := x.Exchange(context.Background(), "id-token-entrante")
	require.NoError(t, err)
	require.Equal(t, "X", tk.AccessToken)
	require.Equal(t, "Bearer", tk.TokenType)
	require.Equal(t, 3599, tk.ExpiresIn)

	require.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", gotForm["grant_type"])
	require.Equal(t, "on_behalf_of", gotForm["requested_token_use"])
	require.Equal(t, "id-token-entrante", gotForm["assertion"])
	require.Equal(t, "client-1", gotForm["client_id"])
	require.Equal(t, "s3cr3t", gotForm["client_secret"])
	require.Equal(t, "api://client-1/.default", gotForm["scope"])
}

func TestExchange_ProviderRechaza(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"AADSTS65001: consent requerido"}`))
	}))
	defer srv.Close()

	x := newTestExchanger(srv.URL)
	_, err := x.Exchange(context.Background(), "tok")

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, http.StatusBadRequest, pe.Status)
	require.Equal(t, "invalid_grant", pe.Code)
	require.NotEmpty(t, pe.Body, "el body del provider se pasa through para debug")
}

func TestExchange_2xxSinAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	x := newTestExchanger(srv.URL)
	_, err := x.Exchange(context.Background(), "tok")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
}

func TestExchange_ErrorDeTransporte(t *testing.T) {
	// servidor cerrado => connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	x := newTestExchanger(srv.URL)
	_, err := x.Exchange(context.Background(), "tok")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestExchange_TimeoutEsTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	x := New(Config{
		TenantID:      "t",
		ClientID:      "c",
		ClientSecret:  "s",
		Scope:         "sc",
		TokenEndpoint: srv.URL,
		Timeout:       50 * time.Millisecond,
	})
	_, err := x.Exchange(context.Background(), "tok")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestExchange_RespetaContexto(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	x := newTestExchanger(srv.URL)
	_, err := x.Exchange(ctx, "tok")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	// TransportError.Unwrap debe conservar la cadena hasta la cancelación.
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_EndpointPorTenant(t *testing.T) {
	x := New(Config{TenantID: "mi-tenant", ClientID: "c", ClientSecret: "s"})
	require.Equal(t, "https://login.microsoftonline.com/mi-tenant/oauth2/v2.0/token", x.cfg.TokenEndpoint)
	require.Equal(t, 10*time.Second, x.cfg.Timeout)
}
