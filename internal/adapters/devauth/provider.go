package devauth

// Package devauth provides a config-driven federated provider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/ports"
)

var _ ports.FederatedProvider = (*Provider)(nil)

// CallbackPath is where Begin sends the browser back to.
const CallbackPath = "/auth/federated/callback"

// Config controls the dev provider. Email is required.
type Config struct {
	Subject string
	Email   string
	Name    string
}

// Provider short-circuits the OAuth dance: Begin redirects straight to our own
// callback and Exchange returns the configured profile regardless of the code.
type Provider struct {
	profile domainauth.ProviderProfile
}

// NewProvider constructs a dev provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "dev-" + cfg.Email
	}
	return &Provider{
		profile: domainauth.ProviderProfile{
			Provider: "dev",
			Subject:  subject,
			Email:    cfg.Email,
			Name:     cfg.Name,
		},
	}, nil
}

func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	return CallbackPath + "?" + q.Encode(), state, nonce, nil
}

// Exchange ignores code/state/nonce; the HTTP handler validates state before calling it.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.ProviderProfile, error) {
	return p.profile, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
