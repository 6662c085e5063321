package easyauth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Claim es un claim del principal. El proxy emite typ/val; algunas
// integraciones usan type/value, aceptamos ambos al decodificar y
// emitimos typ/val (formato de wire original).
type Claim struct {
	Type  string `json:"typ"`
	Value string `json:"val"`
}

func (c *Claim) UnmarshalJSON(b []byte) error {
	var raw struct {
		Typ   string `json:"typ"`
		Val   string `json:"val"`
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Type = raw.Typ
	if c.Type == "" {
		c.Type = raw.Type
	}
	c.Value = raw.Val
	if c.Value == "" {
		c.Value = raw.Value
	}
	return nil
}

// ClientPrincipal es la identidad que el proxy inyecta en
// x-ms-client-principal. Nunca se construye acá: solo se decodifica.
type ClientPrincipal struct {
	IdentityProvider string   `json:"identityProvider"`
	UserID           string   `json:"userId"`
	UserDetails      string   `json:"userDetails"`
	UserRoles        []string `json:"userRoles"`
	Claims           []Claim  `json:"claims,omitempty"`
}

// Session es la vista por-request del estado de autenticación.
// No se persiste nunca.
type Session struct {
	Authenticated bool             `json:"authenticated"`
	ExpiresOn     *int64           `json:"expiresOn,omitempty"` // epoch millis
	Principal     *ClientPrincipal `json:"principal,omitempty"`
}

// ErrBadPrincipal indica un header de principal presente pero ilegible.
// Eso es un proxy mal configurado (o alguien spoofeando headers), NO un
// request anónimo: jamás degradar a authenticated:false.
var ErrBadPrincipal = errors.New("easyauth: principal header malformado")

// DecodePrincipal decodifica el header base64(JSON) del proxy.
// Acepta base64 estándar y URL-safe (con o sin padding): distintas
// versiones del proxy difieren.
func DecodePrincipal(b64 string) (*ClientPrincipal, error) {
	b64 = strings.TrimSpace(b64)
	if b64 == "" {
		return nil, fmt.Errorf("%w: header vacío", ErrBadPrincipal)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(b64)
	}
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(b64)
	}
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(b64)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: base64 inválido", ErrBadPrincipal)
	}

	var p ClientPrincipal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: json inválido", ErrBadPrincipal)
	}
	if p.UserRoles == nil {
		p.UserRoles = []string{}
	}
	return &p, nil
}

// SessionFrom arma el snapshot de sesión a partir de los headers.
// Header ausente => sesión anónima (no es error). Header roto => error.
func SessionFrom(h ProxyHeaders) (*Session, error) {
	if h.Principal == "" {
		return &Session{Authenticated: false}, nil
	}
	p, err := DecodePrincipal(h.Principal)
	if err != nil {
		return nil, err
	}
	s := &Session{Authenticated: true, Principal: p}
	if ms, ok := h.ExpiresAtMillis(); ok {
		s.ExpiresOn = &ms
	}
	return s, nil
}
