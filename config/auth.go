package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword only offers email/password login against the backend.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth adds federated login through an OIDC provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeDev adds a federated login that signs in a fixed identity
	// (for development only).
	AuthModeDev AuthMode = "dev"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oauth", "dev":
		*a = AuthMode(v)
		return nil
	case "mock":
		*a = AuthModeDev
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, dev)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	// ProviderName is forwarded to the backend with the federated profile.
	ProviderName string `env:"PROVIDER_NAME" envDefault:"google"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	IssuerURL    string `env:"ISSUER_URL"    envDefault:"https://accounts.google.com"`
}

// DevAuthConfig controls the dev federated identity.
// Used when AUTH_MODE=dev for development and testing.
type DevAuthConfig struct {
	Subject string `env:"SUBJECT"`
	Email   string `env:"EMAIL"   envDefault:"dev@example.com"`
	Name    string `env:"NAME"    envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which login methods are offered.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=dev).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// TokenSecret is the backend's HMAC key for access tokens. Empty means
	// tokens are decoded without signature verification.
	TokenSecret string `env:"AUTH_TOKEN_SECRET"`

	// RoleAliases maps extra role claims onto application roles,
	// e.g. "BROKER:agent,ADMIN:manager".
	RoleAliases map[string]string `env:"AUTH_ROLE_ALIASES" envSeparator:"," envKeyValSeparator:":"`
}

// Sanitize normalises auth settings.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModePassword
	}
	a.OAuth.ProviderName = strings.TrimSpace(a.OAuth.ProviderName)
	a.OAuth.IssuerURL = strings.TrimSpace(a.OAuth.IssuerURL)
	a.DevAuth.Email = strings.TrimSpace(a.DevAuth.Email)
}

// FederatedEnabled reports whether /auth/federated/* is served.
func (a *AuthConfig) FederatedEnabled() bool {
	return a.Mode == AuthModeOAuth || a.Mode == AuthModeDev
}

// Validate checks that the selected mode is fully configured. Dev auth is
// refused outside development mode.
func (a *AuthConfig) Validate(isDev bool) error {
	switch a.Mode {
	case AuthModeOAuth:
		var errs []error
		if a.OAuth.ClientID == "" {
			errs = append(errs, errors.New("OAUTH_CLIENT_ID is required when AUTH_MODE=oauth"))
		}
		if a.OAuth.ClientSecret == "" {
			errs = append(errs, errors.New("OAUTH_CLIENT_SECRET is required when AUTH_MODE=oauth"))
		}
		if a.OAuth.IssuerURL == "" {
			errs = append(errs, errors.New("OAUTH_ISSUER_URL is required when AUTH_MODE=oauth"))
		}
		return errors.Join(errs...)
	case AuthModeDev:
		if !isDev {
			return errors.New("AUTH_MODE=dev requires DEV=true")
		}
		if a.DevAuth.Email == "" {
			return errors.New("DEV_AUTH_EMAIL is required when AUTH_MODE=dev")
		}
	}
	return nil
}
