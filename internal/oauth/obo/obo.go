// Package obo implementa el intercambio OAuth2 on-behalf-of: toma el id token
// que el proxy inyectó para el usuario y lo cambia server-side por un access
// token con otra audiencia, sin que el client_secret toque el browser.
package obo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	grantJWTBearer  = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	tokenUseOBO     = "on_behalf_of"
	defaultEndpoint = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
)

// ErrNoToken: no vino id token en el request. Única precondición detectable
// localmente; el handler la mapea a 401 no_token.
var ErrNoToken = errors.New("obo: falta el identity token")

// ProviderError: el IdP respondió non-2xx. Guardamos el body crudo para
// passthrough al caller (debuggability) además de los campos estándar.
type ProviderError struct {
	Status      int
	Code        string // "error" del body OAuth2, si vino
	Description string
	Body        json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("obo: provider rechazó el exchange: http %d %s %s", e.Status, e.Code, e.Description)
}

// TransportError: DNS, timeout, conexión cortada. Al caller le llega un
// código genérico; el detalle queda solo en logs server-side.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("obo: error de transporte: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Token es la respuesta exitosa del exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// Config del exchanger. Inmutable después del arranque; el secret no se
// loguea ni se devuelve nunca.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// Scope del token resultante. Para self-OBO: api://{client_id}/.default
	Scope string
	// TokenEndpoint pisa el default por-tenant (para stubs en tests).
	TokenEndpoint string
	// Timeout acotado del POST saliente. Default 10s.
	Timeout time.Duration
}

// Exchanger hace el POST de exchange contra el token endpoint del IdP.
// Sin estado compartido mutable: seguro para requests concurrentes.
type Exchanger struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Exchanger {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = fmt.Sprintf(defaultEndpoint, url.PathEscape(cfg.TenantID))
	}
	return &Exchanger{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Exchange ejecuta un intercambio on-behalf-of con assertion = id token.
// Sin retries: un rechazo del IdP casi siempre es consent/scope/secret mal
// configurado, no algo transitorio. Resiliencia va en una capa de arriba.
func (x *Exchanger) Exchange(ctx context.Context, assertion string) (*Token, error) {
	assertion = strings.TrimSpace(assertion)
	if assertion == "" {
		return nil, ErrNoToken
	}

	form := url.Values{}
	form.Set("grant_type", grantJWTBearer)
	form.Set("requested_token_use", tokenUseOBO)
	form.Set("assertion", assertion)
	form.Set("client_id", x.cfg.ClientID)
	form.Set("client_secret", x.cfg.ClientSecret)
	form.Set("scope", x.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := x.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// 1MB alcanza y sobra para cualquier respuesta de token endpoint
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode/100 != 2 {
		pe := &ProviderError{Status: resp.StatusCode}
		var oe struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &oe) == nil {
			pe.Code = oe.Error
			pe.Description = oe.ErrorDescription
		}
		if json.Valid(body) {
			pe.Body = json.RawMessage(body)
		}
		return nil, pe
	}

	var tk Token
	if err := json.Unmarshal(body, &tk); err != nil {
		// 2xx con body ilegible: lo tratamos como rechazo, no como éxito a medias
		return nil, &ProviderError{Status: resp.StatusCode, Description: "body no parseable"}
	}
	if tk.AccessToken == "" {
		return nil, &ProviderError{Status: resp.StatusCode, Description: "respuesta sin access_token"}
	}
	return &tk, nil
}
