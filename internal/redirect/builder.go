package redirect

import (
	"fmt"
	"net/url"
	"strings"
)

// Builder arma URLs de login/logout contra el proxy de identidad y el IdP.
// Solo acepta targets que ya pasaron por el Validator (ResolveTarget), por
// eso los métodos toman el target ya resuelto y no el returnTo crudo.
type Builder struct {
	proxyBase *url.URL
	provider  string
	tenantID  string
}

func NewBuilder(proxyBase, provider, tenantID string) (*Builder, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(proxyBase), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("redirect: proxy base inválida: %q", proxyBase)
	}
	if provider == "" {
		provider = "aad"
	}
	return &Builder{proxyBase: u, provider: provider, tenantID: tenantID}, nil
}

// LoginURL: {base}/.auth/login/{provider}?post_login_redirect_uri=<target>
//   - forceLogin agrega prompt=login para no reusar la sesión cacheada del
//     proxy en silencio.
//   - nonce es un cache-buster por request (proxies intermedios cachean la
//     página de login si los dejás).
func (b *Builder) LoginURL(target, nonce string, forceLogin bool) string {
	u := *b.proxyBase
	u.Path = strings.TrimRight(u.Path, "/") + "/.auth/login/" + b.provider
	q := u.Query()
	q.Set("post_login_redirect_uri", target)
	if forceLogin {
		q.Set("prompt", "login")
	}
	if nonce != "" {
		q.Set("nonce", nonce)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// proxyLogoutURL: {base}/.auth/logout?post_logout_redirect_uri=<target>
func (b *Builder) proxyLogoutURL(target string) string {
	u := *b.proxyBase
	u.Path = strings.TrimRight(u.Path, "/") + "/.auth/logout"
	q := u.Query()
	q.Set("post_logout_redirect_uri", target)
	u.RawQuery = q.Encode()
	return u.String()
}

// LocalLogoutURL es el logout débil: solo el proxy olvida la sesión; los
// access tokens ya emitidos siguen vivos hasta su expiry natural.
func (b *Builder) LocalLogoutURL(target string) string {
	return b.proxyLogoutURL(target)
}

// LogoutURL es el logout estricto: primero invalida en el IdP y de ahí
// vuelve al logout del proxy, que a su vez redirige al target final. Un
// logout solo-local deja tokens válidos colgando.
func (b *Builder) LogoutURL(target string) string {
	if b.tenantID == "" {
		// sin tenant no hay endpoint de provider; degradamos al proxy
		return b.proxyLogoutURL(target)
	}
	provider := url.URL{
		Scheme: "https",
		Host:   "login.microsoftonline.com",
		Path:   "/" + b.tenantID + "/oauth2/v2.0/logout",
	}
	q := provider.Query()
	q.Set("post_logout_redirect_uri", b.proxyLogoutURL(target))
	provider.RawQuery = q.Encode()
	return provider.String()
}
