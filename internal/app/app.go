package app

import (
	"github.com/dropDatabas3/authhub/internal/config"
	"github.com/dropDatabas3/authhub/internal/oauth/obo"
	"github.com/dropDatabas3/authhub/internal/redirect"
)

// Container agrupa las dependencias inmutables del gateway. Se arma una vez
// en el arranque y se inyecta a los handlers; nada lee config global adentro
// del request path.
type Container struct {
	Cfg       *config.Config
	Validator *redirect.Validator
	Builder   *redirect.Builder
	Exchanger *obo.Exchanger
}

// New cablea el container a partir de la config ya validada.
func New(cfg *config.Config) (*Container, error) {
	b, err := redirect.NewBuilder(cfg.Proxy.BaseURL, cfg.Proxy.Provider, cfg.OBO.TenantID)
	if err != nil {
		return nil, err
	}
	c := &Container{
		Cfg:       cfg,
		Validator: redirect.New(cfg.Server.CORSAllowedOrigins, cfg.Redirect.DefaultTarget),
		Builder:   b,
	}
	if cfg.OBOReady() {
		c.Exchanger = obo.New(obo.Config{
			TenantID:      cfg.OBO.TenantID,
			ClientID:      cfg.OBO.ClientID,
			ClientSecret:  cfg.OBO.ClientSecret,
			Scope:         cfg.OBO.Scope,
			TokenEndpoint: cfg.OBO.TokenEndpoint,
			Timeout:       cfg.OBOTimeout(),
		})
	}
	return c, nil
}
