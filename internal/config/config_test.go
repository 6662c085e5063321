package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_DefaultsYScopeDerivado(t *testing.T) {
	p := writeYAML(t, `
proxy:
  base_url: https://site.azurewebsites.net
redirect:
  default_target: https://app.example.com
obo:
  tenant_id: t1
  client_id: c1
  client_secret: s1
`)
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", c.Server.Addr)
	}
	if c.Proxy.Provider != "aad" {
		t.Fatalf("provider default: %q", c.Proxy.Provider)
	}
	if c.OBO.Scope != "api://c1/.default" {
		t.Fatalf("scope self-OBO derivado: %q", c.OBO.Scope)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if !c.OBOReady() {
		t.Fatal("OBO debería estar listo")
	}
	if c.OBOTimeout() != 10*time.Second {
		t.Fatalf("timeout default: %v", c.OBOTimeout())
	}
}

func TestLoad_EnvPisaArchivo(t *testing.T) {
	p := writeYAML(t, `
proxy:
  base_url: https://del-archivo
server:
  cors_allowed_origins: [https://del-archivo]
`)
	t.Setenv("BASE_URL", "https://del-env")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PORT", "9090")

	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if c.Proxy.BaseURL != "https://del-env" {
		t.Fatalf("env debe pisar archivo: %q", c.Proxy.BaseURL)
	}
	if len(c.Server.CORSAllowedOrigins) != 2 || c.Server.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", c.Server.CORSAllowedOrigins)
	}
	if c.Server.Addr != ":9090" {
		t.Fatalf("PORT de plataforma: %q", c.Server.Addr)
	}
}

func TestValidate_Requeridos(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err == nil {
		t.Fatal("sin base_url y default_target debe fallar el arranque")
	}
}

func TestOBOReady_Incompleto(t *testing.T) {
	c, _ := Load("")
	c.OBO.TenantID = "t"
	c.OBO.ClientID = "c"
	if c.OBOReady() {
		t.Fatal("falta el secret: no está listo")
	}
}
