package redirect

import "testing"

func newV() *Validator {
	return New(
		[]string{"https://app.example.com", "*.widgets.dev", " https://other.io/ "},
		"https://app.example.com",
	)
}

func TestOriginAllowed_Exactos(t *testing.T) {
	v := newV()
	allowed := []string{
		"https://app.example.com",
		"https://app.example.com/", // trailing slash se normaliza
		"HTTPS://APP.EXAMPLE.COM",
		"https://other.io",
	}
	for _, o := range allowed {
		if !v.OriginAllowed(o) {
			t.Fatalf("esperaba allowed: %q", o)
		}
	}
}

func TestOriginAllowed_Wildcard(t *testing.T) {
	v := newV()
	allowed := []string{
		"https://a.widgets.dev",
		"https://x.y.widgets.dev",
		"https://widgets.dev", // apex
	}
	for _, o := range allowed {
		if !v.OriginAllowed(o) {
			t.Fatalf("esperaba allowed: %q", o)
		}
	}
	denied := []string{
		"http://a.widgets.dev", // wildcard es solo https: nada de credenciales en claro
		"http://widgets.dev",
		"https://evil-widgets.dev",
		"https://widgets.dev.evil.com",
		"https://app.example.com.evil.com",
		"https://unrelated.net",
		"", // origin ausente: sin CORS pero sin error
	}
	for _, o := range denied {
		if v.OriginAllowed(o) {
			t.Fatalf("esperaba denied: %q", o)
		}
	}
}

func TestOriginAllowed_Comodin(t *testing.T) {
	v := New([]string{"*"}, "https://fallback")
	if !v.OriginAllowed("https://cualquiera.example") {
		t.Fatal("con * todo origin no-vacío pasa")
	}
	if v.OriginAllowed("") {
		t.Fatal("origin vacío nunca pasa, ni con *")
	}
}

func TestResolveTarget(t *testing.T) {
	v := newV()
	def := "https://app.example.com"
	cases := []struct{ in, want string }{
		{"", def},
		{"https://app.example.com/after", "https://app.example.com/after"},
		{"https://a.widgets.dev/cb?x=1", "https://a.widgets.dev/cb?x=1"},
		{"https://attacker.example/phish", def},
		// Relativo same-origin: ok. Protocol-relative jamás, y backslash
		// tampoco: los browsers lo normalizan a "/" antes de navegar.
		{"/dashboard", "/dashboard"},
		{"//attacker.example/phish", def},
		{`/\attacker.example/phish`, def},
		{`/dash\..\..\x`, def},
		{`\\attacker.example`, def},
		// Scheme raro aunque el host pase el allow-list.
		{"javascript:alert(1)", def},
		{"ftp://files.widgets.dev", def},
	}
	for _, c := range cases {
		if got := v.ResolveTarget(c.in); got != c.want {
			t.Fatalf("ResolveTarget(%q) = %q, esperaba %q", c.in, got, c.want)
		}
	}
}

func TestBuilder_LoginURL(t *testing.T) {
	b, err := NewBuilder("https://site.azurewebsites.net/", "aad", "tenant-1")
	if err != nil {
		t.Fatal(err)
	}
	got := b.LoginURL("https://app.example.com/after", "n-1", true)
	want := "https://site.azurewebsites.net/.auth/login/aad?nonce=n-1&post_login_redirect_uri=https%3A%2F%2Fapp.example.com%2Fafter&prompt=login"
	if got != want {
		t.Fatalf("login url:\n got  %s\n want %s", got, want)
	}
}

func TestBuilder_LogoutEstrictoPasaPorElIdP(t *testing.T) {
	b, err := NewBuilder("https://site.azurewebsites.net", "aad", "tenant-1")
	if err != nil {
		t.Fatal(err)
	}
	got := b.LogoutURL("https://app.example.com")
	want := "https://login.microsoftonline.com/tenant-1/oauth2/v2.0/logout?post_logout_redirect_uri=https%3A%2F%2Fsite.azurewebsites.net%2F.auth%2Flogout%3Fpost_logout_redirect_uri%3Dhttps%253A%252F%252Fapp.example.com"
	if got != want {
		t.Fatalf("logout url:\n got  %s\n want %s", got, want)
	}
}

func TestBuilder_LogoutLocalEsSoloProxy(t *testing.T) {
	b, _ := NewBuilder("https://site.azurewebsites.net", "aad", "tenant-1")
	got := b.LocalLogoutURL("https://app.example.com")
	want := "https://site.azurewebsites.net/.auth/logout?post_logout_redirect_uri=https%3A%2F%2Fapp.example.com"
	if got != want {
		t.Fatalf("logout local:\n got  %s\n want %s", got, want)
	}
}

func TestBuilder_BaseInvalida(t *testing.T) {
	if _, err := NewBuilder("no-es-url", "aad", "t"); err == nil {
		t.Fatal("esperaba error con base inválida")
	}
}
