package config

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// BaseURL is the public URL of the application. The OAuth redirect URL
	// defaults to BaseURL + /auth/federated/callback.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`

	// CookieDomain is the domain for the client and CSRF cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SecureCookies forces the Secure attribute even on plain HTTP, for
	// deployments behind a TLS-terminating proxy that drops X-Forwarded-Proto.
	SecureCookies bool `env:"APP_SECURE_COOKIES" envDefault:"false"`

	// DisableCSRF turns off the double-submit CSRF check.
	DisableCSRF bool `env:"HTTP_DISABLE_CSRF" envDefault:"false"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = ":3000"
	}
	h.BaseURL = strings.TrimSuffix(strings.TrimSpace(h.BaseURL), "/")
	h.CookieDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), "."))
}

// Validate rejects a cookie domain browsers would refuse, such as "co.uk"
// or "github.io".
func (h *HTTPConfig) Validate() error {
	return validateCookieDomain(h.CookieDomain)
}

func validateCookieDomain(domain string) error {
	if domain == "" || domain == "localhost" {
		return nil
	}
	if suffix, _ := publicsuffix.PublicSuffix(domain); suffix == domain {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", domain)
	}
	return nil
}
