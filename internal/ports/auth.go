package ports

// Package ports defines interfaces (hexagonal ports) for the client core.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
)

// ErrTokenNotFound is returned by TokenStore.Load when nothing is persisted.
var ErrTokenNotFound = errors.New("token not found")

// AuthGateway is the backend's authentication API. Each call returns the
// raw access token issued by the backend.
type AuthGateway interface {
	Login(ctx context.Context, creds domainauth.Credentials) (string, error)
	FederatedLogin(ctx context.Context, profile domainauth.ProviderProfile) (string, error)
	Register(ctx context.Context, reg domainauth.Registration) (domainauth.RegistrationResult, error)
}

// BeginInput carries inputs for initiating a federated login.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// FederatedProvider runs the browser redirect flow against an identity provider.
type FederatedProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the provider's profile.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.ProviderProfile, error)
}

// TokenStore persists one access token per client.
type TokenStore interface {
	Load(ctx context.Context, clientID string) (string, error)
	Save(ctx context.Context, clientID, token string, expiresAt time.Time) error
	Delete(ctx context.Context, clientID string) error
}

// TokenDecoder turns an access token into an Identity.
type TokenDecoder interface {
	Decode(token string) (domainauth.Identity, error)
}

// RoleMapper maps a token's role claim to an application role.
type RoleMapper interface {
	Map(claim string) domainauth.Role
}
