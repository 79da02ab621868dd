package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/ports"
)

func TestMockFederatedProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockFederatedProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "/search"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockFederatedProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockFederatedProvider{
		BeginFunc: func(_ context.Context, in ports.BeginInput) (string, string, string, error) {
			return "https://idp/login?next=" + in.RedirectURL, "s", "n", nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/profile"})

	require.NoError(t, err)
	assert.Equal(t, "https://idp/login?next=/profile", authURL)
	assert.Equal(t, "s", state)
	assert.Equal(t, "n", nonce)
}

func TestMockFederatedProvider_Exchange(t *testing.T) {
	provider := NewMockFederatedProvider()

	profile, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "state-1", Nonce: "nonce-1"})
	require.NoError(t, err)
	assert.Equal(t, "mock", profile.Provider)
	assert.Equal(t, "mock.user@example.com", profile.Email)

	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.ProviderProfile, error) {
		return domainauth.ProviderProfile{}, errors.New("denied")
	}
	_, err = provider.Exchange(context.Background(), ports.ExchangeInput{})
	require.EqualError(t, err, "denied")
}

func TestMockAuthGateway(t *testing.T) {
	gw := &MockAuthGateway{
		LoginFunc: func(_ context.Context, creds domainauth.Credentials) (string, error) {
			return "token-for-" + creds.Email, nil
		},
	}
	ctx := context.Background()

	token, err := gw.Login(ctx, domainauth.Credentials{Email: "marco@mail.it"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-marco@mail.it", token)

	_, err = gw.FederatedLogin(ctx, domainauth.ProviderProfile{})
	require.Error(t, err, "unconfigured federated login fails")

	res, err := gw.Register(ctx, domainauth.Registration{Email: "new@mail.it"})
	require.NoError(t, err)
	assert.Equal(t, "created", res.Status)

	assert.Equal(t, 1, gw.LoginCalls)
	assert.Equal(t, 1, gw.FederatedCalls)
	assert.Equal(t, 1, gw.RegisterCalls)
}

func TestMapDecoder(t *testing.T) {
	dec := MapDecoder{Tokens: map[string]domainauth.Identity{
		"t1": {Email: "anna@agency.it", Role: domainauth.RoleAgent},
	}}

	id, err := dec.Decode("t1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAgent, id.Role)

	_, err = dec.Decode("unknown")
	assert.ErrorIs(t, err, ErrBadToken)
}
