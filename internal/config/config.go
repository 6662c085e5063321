package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
	} `yaml:"server"`

	// Proxy de identidad (Easy Auth o equivalente) delante del gateway.
	Proxy struct {
		// BaseURL del sitio detrás del proxy, ej. https://myapp.azurewebsites.net
		BaseURL string `yaml:"base_url"`
		// Provider usado en /.auth/login/{provider}. Default: aad.
		Provider string `yaml:"provider"`
		// Cookies de afinidad de sesión que /logout debe borrar,
		// además de las del proxy (AppServiceAuthSession, ARRAffinity...).
		AffinityCookies []string `yaml:"affinity_cookies"`
		CookieDomain    string   `yaml:"cookie_domain"`
	} `yaml:"proxy"`

	// Destino por defecto post-login/post-logout cuando returnTo falta
	// o no pasa el allow-list.
	Redirect struct {
		DefaultTarget string `yaml:"default_target"`
	} `yaml:"redirect"`

	// OBO: intercambio on-behalf-of contra el IdP.
	OBO struct {
		TenantID     string `yaml:"tenant_id"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		// Scope del exchange. Default: api://{client_id}/.default (self-OBO).
		Scope string `yaml:"scope"`
		// TokenEndpoint permite apuntar a un stub en tests.
		// Default: https://login.microsoftonline.com/{tenant}/oauth2/v2.0/token
		TokenEndpoint string `yaml:"token_endpoint"`
		Timeout       string `yaml:"timeout"`
	} `yaml:"obo"`
}

func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}
	c.applyEnv()

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Proxy.Provider == "" {
		c.Proxy.Provider = "aad"
	}
	if c.OBO.Scope == "" && c.OBO.ClientID != "" {
		c.OBO.Scope = "api://" + c.OBO.ClientID + "/.default"
	}
	if c.OBO.Timeout == "" {
		c.OBO.Timeout = "10s"
	}
	return &c, nil
}

// applyEnv pisa valores del YAML con variables de entorno (env gana sobre
// archivo). PORT lo define solo la plataforma, por eso se respeta aparte.
func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.App.Env, "APP_ENV")
	set(&c.Server.Addr, "AUTHHUB_ADDR")
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" && os.Getenv("AUTHHUB_ADDR") == "" {
		c.Server.Addr = ":" + v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		c.Server.CORSAllowedOrigins = splitCSV(v)
	}
	set(&c.Proxy.BaseURL, "BASE_URL")
	set(&c.Proxy.Provider, "AUTHHUB_PROXY_PROVIDER")
	if v := strings.TrimSpace(os.Getenv("AUTHHUB_AFFINITY_COOKIES")); v != "" {
		c.Proxy.AffinityCookies = splitCSV(v)
	}
	set(&c.Proxy.CookieDomain, "AUTHHUB_COOKIE_DOMAIN")
	set(&c.Redirect.DefaultTarget, "DEFAULT_REDIRECT")
	set(&c.OBO.TenantID, "TENANT_ID")
	set(&c.OBO.ClientID, "CLIENT_ID")
	set(&c.OBO.ClientSecret, "CLIENT_SECRET")
	set(&c.OBO.Scope, "OBO_SCOPE")
	set(&c.OBO.TokenEndpoint, "OBO_TOKEN_ENDPOINT")
	set(&c.OBO.Timeout, "OBO_TIMEOUT")
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate chequea lo mínimo para levantar el proceso. Lo específico de OBO
// (client_id/secret/tenant) se valida por-request para no tumbar las rutas
// que no lo usan.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Proxy.BaseURL) == "" {
		return fmt.Errorf("config: proxy.base_url (BASE_URL) es requerido")
	}
	if strings.TrimSpace(c.Redirect.DefaultTarget) == "" {
		return fmt.Errorf("config: redirect.default_target (DEFAULT_REDIRECT) es requerido")
	}
	if _, err := time.ParseDuration(c.OBO.Timeout); err != nil {
		return fmt.Errorf("config: obo.timeout inválido: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("config: server.read_timeout inválido: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("config: server.write_timeout inválido: %w", err)
	}
	return nil
}

// OBOReady reporta si la config alcanza para el exchange on-behalf-of.
func (c *Config) OBOReady() bool {
	return strings.TrimSpace(c.OBO.TenantID) != "" &&
		strings.TrimSpace(c.OBO.ClientID) != "" &&
		strings.TrimSpace(c.OBO.ClientSecret) != ""
}

// OBOTimeout parsea el timeout ya validado por Validate.
func (c *Config) OBOTimeout() time.Duration {
	d, err := time.ParseDuration(c.OBO.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
