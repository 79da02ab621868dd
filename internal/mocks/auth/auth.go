// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.FederatedProvider = (*MockFederatedProvider)(nil)
	_ ports.AuthGateway       = (*MockAuthGateway)(nil)
	_ ports.TokenDecoder      = (*MapDecoder)(nil)
)

// MockFederatedProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockFederatedProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.ProviderProfile, error)

	AuthURL        string
	DefaultProfile domainauth.ProviderProfile

	mu        sync.Mutex
	callCount int
}

// NewMockFederatedProvider creates a MockFederatedProvider with sensible defaults.
func NewMockFederatedProvider() *MockFederatedProvider {
	return &MockFederatedProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultProfile: domainauth.ProviderProfile{
			Provider: "mock",
			Subject:  "mock-user-1",
			Email:    "mock.user@example.com",
			Name:     "Mock User",
		},
	}
}

func (m *MockFederatedProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockFederatedProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.ProviderProfile, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultProfile, nil
}

// MockAuthGateway records calls and delegates to optional func fields.
type MockAuthGateway struct {
	LoginFunc          func(ctx context.Context, creds domainauth.Credentials) (string, error)
	FederatedLoginFunc func(ctx context.Context, p domainauth.ProviderProfile) (string, error)
	RegisterFunc       func(ctx context.Context, r domainauth.Registration) (domainauth.RegistrationResult, error)

	mu             sync.Mutex
	LoginCalls     int
	FederatedCalls int
	RegisterCalls  int
}

func (m *MockAuthGateway) Login(ctx context.Context, creds domainauth.Credentials) (string, error) {
	m.mu.Lock()
	m.LoginCalls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return "", errors.New("login not configured")
}

func (m *MockAuthGateway) FederatedLogin(ctx context.Context, p domainauth.ProviderProfile) (string, error) {
	m.mu.Lock()
	m.FederatedCalls++
	m.mu.Unlock()
	if m.FederatedLoginFunc != nil {
		return m.FederatedLoginFunc(ctx, p)
	}
	return "", errors.New("federated login not configured")
}

func (m *MockAuthGateway) Register(ctx context.Context, r domainauth.Registration) (domainauth.RegistrationResult, error) {
	m.mu.Lock()
	m.RegisterCalls++
	m.mu.Unlock()
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, r)
	}
	return domainauth.RegistrationResult{Status: "created"}, nil
}

// MapDecoder decodes tokens by looking them up in a map.
type MapDecoder struct {
	Tokens map[string]domainauth.Identity
}

// ErrBadToken is returned by MapDecoder for unknown tokens.
var ErrBadToken = errors.New("malformed token")

func (d MapDecoder) Decode(token string) (domainauth.Identity, error) {
	id, ok := d.Tokens[token]
	if !ok {
		return domainauth.Identity{}, ErrBadToken
	}
	return id, nil
}
