package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietiestates/estates-web/internal/adapters/memory"
	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	mocks "github.com/dietiestates/estates-web/internal/mocks/auth"
	"github.com/dietiestates/estates-web/internal/observability/metrics"
	"github.com/dietiestates/estates-web/internal/ports"
)

const testClientID = "client-1"

var (
	agentIdentity = domainauth.Identity{
		SubjectID:   "7",
		Username:    "anna",
		Email:       "anna@agency.it",
		Role:        domainauth.RoleAgent,
		TokenExpiry: time.Now().Add(time.Hour),
	}
	expiredIdentity = domainauth.Identity{
		SubjectID:   "8",
		Email:       "old@example.com",
		Role:        domainauth.RoleUser,
		TokenExpiry: time.Now().Add(-time.Minute),
	}
)

type sessionFixture struct {
	session *Session
	store   *memory.TokenStore
	gateway *mocks.MockAuthGateway
	metrics *metrics.Recorder
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		store:   memory.NewTokenStore(),
		gateway: &mocks.MockAuthGateway{},
		metrics: metrics.NewRecorder(),
	}
	f.gateway.LoginFunc = func(_ context.Context, c domainauth.Credentials) (string, error) {
		if c.Email == "anna@agency.it" && c.Password == "secret-pass" {
			return "agent-token", nil
		}
		return "", apperrors.Authentication("invalid email or password")
	}
	f.session = NewSession(SessionOptions{
		ClientID: testClientID,
		Store:    f.store,
		Gateway:  f.gateway,
		Decoder: mocks.MapDecoder{Tokens: map[string]domainauth.Identity{
			"agent-token":   agentIdentity,
			"expired-token": expiredIdentity,
		}},
		Metrics: f.metrics,
	})
	return f
}

func TestSession_Login_Success(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	var seen []domainauth.Identity
	f.session.Subscribe(func(id domainauth.Identity, ok bool) {
		if ok {
			seen = append(seen, id)
		}
	})
	epoch := f.session.Epoch()

	id, err := f.session.Login(ctx, domainauth.Credentials{Email: " anna@agency.it ", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, agentIdentity.Email, id.Email)
	assert.Equal(t, domainauth.RoleAgent, id.Role)

	current, ok := f.session.Current()
	require.True(t, ok)
	assert.Equal(t, id, current)
	assert.Greater(t, f.session.Epoch(), epoch)
	require.Len(t, seen, 1)
	assert.Equal(t, "anna@agency.it", seen[0].Email)

	stored, err := f.store.Load(ctx, testClientID)
	require.NoError(t, err)
	assert.Equal(t, "agent-token", stored)

	token, _, ok := f.session.Credentials()
	assert.True(t, ok)
	assert.Equal(t, "agent-token", token)
	assert.Equal(t, 1, f.metrics.CountedWith("session.login", "result", metrics.ResultSuccess))
}

func TestSession_Login_Validation(t *testing.T) {
	tests := []struct {
		name   string
		creds  domainauth.Credentials
		fields []string
	}{
		{"both missing", domainauth.Credentials{}, []string{"email", "password"}},
		{"blank email", domainauth.Credentials{Email: "   ", Password: "x"}, []string{"email"}},
		{"missing password", domainauth.Credentials{Email: "a@b.it"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			_, err := f.session.Login(context.Background(), tt.creds)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			fields := apperrors.GetFields(err)
			for _, name := range tt.fields {
				assert.Contains(t, fields, name)
			}
			assert.Zero(t, f.gateway.LoginCalls, "nothing is sent when the form is incomplete")
		})
	}
}

func TestSession_Login_InvalidCredentials(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.session.Login(context.Background(), domainauth.Credentials{Email: "anna@agency.it", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Equal(t, 1, f.gateway.LoginCalls, "authentication failures are never retried")

	_, ok := f.session.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, f.metrics.CountedWith("session.login", "error_class", "authentication"))
}

func TestSession_Login_UndecodableToken(t *testing.T) {
	f := newSessionFixture(t)
	f.gateway.LoginFunc = func(context.Context, domainauth.Credentials) (string, error) {
		return "garbage", nil
	}

	_, err := f.session.Login(context.Background(), domainauth.Credentials{Email: "a@b.it", Password: "p"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))

	_, loadErr := f.store.Load(context.Background(), testClientID)
	assert.ErrorIs(t, loadErr, ports.ErrTokenNotFound)
}

func TestSession_Login_ExpiredToken(t *testing.T) {
	f := newSessionFixture(t)
	f.gateway.LoginFunc = func(context.Context, domainauth.Credentials) (string, error) {
		return "expired-token", nil
	}

	_, err := f.session.Login(context.Background(), domainauth.Credentials{Email: "a@b.it", Password: "p"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
}

func TestSession_LoginWithFederatedProvider(t *testing.T) {
	f := newSessionFixture(t)
	f.gateway.FederatedLoginFunc = func(_ context.Context, p domainauth.ProviderProfile) (string, error) {
		assert.Equal(t, "google", p.Provider)
		return "agent-token", nil
	}

	_, err := f.session.LoginWithFederatedProvider(context.Background(), domainauth.ProviderProfile{Provider: "google"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.gateway.FederatedCalls)

	id, err := f.session.LoginWithFederatedProvider(context.Background(), domainauth.ProviderProfile{
		Provider: "google",
		Subject:  "g-1",
		Email:    "anna@agency.it",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAgent, id.Role)
	assert.Equal(t, 1, f.metrics.CountedWith("session.login", "method", "federated"))
}

func TestSession_Register(t *testing.T) {
	valid := domainauth.Registration{
		Username:        "mario",
		Email:           "mario@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}

	tests := []struct {
		name      string
		mutate    func(r *domainauth.Registration)
		wantField string
	}{
		{"missing username", func(r *domainauth.Registration) { r.Username = " " }, "username"},
		{"missing email", func(r *domainauth.Registration) { r.Email = "" }, "email"},
		{"bad email", func(r *domainauth.Registration) { r.Email = "mario@example" }, "email"},
		{"short password", func(r *domainauth.Registration) { r.Password, r.ConfirmPassword = "short", "short" }, "password"},
		{"mismatch", func(r *domainauth.Registration) { r.ConfirmPassword = "password2" }, "confirmPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			r := valid
			tt.mutate(&r)
			_, err := f.session.Register(context.Background(), r)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, apperrors.GetFields(err), tt.wantField)
			assert.Zero(t, f.gateway.RegisterCalls)
		})
	}

	t.Run("success does not authenticate", func(t *testing.T) {
		f := newSessionFixture(t)
		res, err := f.session.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, "created", res.Status)
		_, ok := f.session.Current()
		assert.False(t, ok)
	})

	t.Run("conflict surfaced verbatim", func(t *testing.T) {
		f := newSessionFixture(t)
		conflict := apperrors.Conflict("Email already in use")
		f.gateway.RegisterFunc = func(context.Context, domainauth.Registration) (domainauth.RegistrationResult, error) {
			return domainauth.RegistrationResult{}, conflict
		}
		_, err := f.session.Register(context.Background(), valid)
		assert.Same(t, conflict, err)
	})
}

func TestSession_Logout(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	_, err := f.session.Login(ctx, domainauth.Credentials{Email: "anna@agency.it", Password: "secret-pass"})
	require.NoError(t, err)

	var loggedOut bool
	f.session.Subscribe(func(_ domainauth.Identity, ok bool) { loggedOut = !ok })
	before := f.session.Epoch()

	f.session.Logout(ctx)

	_, ok := f.session.Current()
	assert.False(t, ok)
	assert.True(t, loggedOut)
	assert.Greater(t, f.session.Epoch(), before)
	_, err = f.store.Load(ctx, testClientID)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
	assert.Equal(t, int64(1), f.metrics.Counted("session.logout"))
}

type failingStore struct{ ports.TokenStore }

func (failingStore) Delete(context.Context, string) error { return errors.New("redis down") }

func TestSession_Logout_StoreFailureIsNotFatal(t *testing.T) {
	f := newSessionFixture(t)
	f.session.store = failingStore{TokenStore: f.store}
	ctx := context.Background()
	_, err := f.session.Login(ctx, domainauth.Credentials{Email: "anna@agency.it", Password: "secret-pass"})
	require.NoError(t, err)

	f.session.Logout(ctx)

	_, ok := f.session.Current()
	assert.False(t, ok)
}

func TestSession_RecoverSession(t *testing.T) {
	tests := []struct {
		name      string
		persisted string
		wantOK    bool
		wantKept  bool
	}{
		{"valid token", "agent-token", true, true},
		{"expired token is cleared", "expired-token", false, false},
		{"undecodable token is cleared", "garbage", false, false},
		{"nothing persisted", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			ctx := context.Background()
			if tt.persisted != "" {
				require.NoError(t, f.store.Save(ctx, testClientID, tt.persisted, time.Time{}))
			}

			f.session.RecoverSession(ctx)

			_, ok := f.session.Current()
			assert.Equal(t, tt.wantOK, ok)
			_, err := f.store.Load(ctx, testClientID)
			assert.Equal(t, tt.wantKept, err == nil)
		})
	}
}

func TestSession_CurrentDropsExpiredIdentity(t *testing.T) {
	f := newSessionFixture(t)
	now := time.Now()
	f.session.now = func() time.Time { return now }
	ctx := context.Background()
	_, err := f.session.Login(ctx, domainauth.Credentials{Email: "anna@agency.it", Password: "secret-pass"})
	require.NoError(t, err)

	var notified bool
	f.session.Subscribe(func(_ domainauth.Identity, ok bool) { notified = !ok })
	f.session.now = func() time.Time { return agentIdentity.TokenExpiry }

	_, ok := f.session.Current()
	assert.False(t, ok)
	assert.True(t, notified)
	_, _, ok = f.session.Credentials()
	assert.False(t, ok)
}

func TestSession_SubscribeCancel(t *testing.T) {
	f := newSessionFixture(t)
	var mu sync.Mutex
	calls := 0
	cancel := f.session.Subscribe(func(domainauth.Identity, bool) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	f.session.Logout(context.Background())
	cancel()
	f.session.Logout(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}
