package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/observability/metrics"
	"github.com/dietiestates/estates-web/internal/observability/statsd"
	"github.com/dietiestates/estates-web/internal/ports"
)

// MinPasswordLength is enforced by every form that sets a password.
const MinPasswordLength = 8

var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// SessionObserver is notified after every identity change. ok is false after logout.
type SessionObserver func(identity domainauth.Identity, ok bool)

// SessionOptions groups dependencies for a Session.
type SessionOptions struct {
	ClientID string
	Store    ports.TokenStore
	Gateway  ports.AuthGateway
	Decoder  ports.TokenDecoder
	Logger   *slog.Logger
	Metrics  statsd.Sink
	Now      func() time.Time
}

// Session holds the authenticated identity of one browser client.
// It is the only writer of that identity.
type Session struct {
	store   ports.TokenStore
	gateway ports.AuthGateway
	decoder ports.TokenDecoder
	logger  *slog.Logger
	metrics statsd.Sink
	now     func() time.Time

	mu        sync.Mutex
	clientID  string
	identity  *domainauth.Identity
	token     string
	epoch     uint64
	observers map[int]SessionObserver
	nextObs   int
}

// NewSession constructs an empty, unauthenticated Session.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		clientID:  opts.ClientID,
		store:     opts.Store,
		gateway:   opts.Gateway,
		decoder:   opts.Decoder,
		logger:    logger.With("component", "session"),
		metrics:   sink,
		now:       now,
		observers: make(map[int]SessionObserver),
	}
}

// RecoverSession restores the identity from the persisted token, if any.
// A token that cannot be decoded or has expired is removed. It never fails.
func (s *Session) RecoverSession(ctx context.Context) {
	token, err := s.store.Load(ctx, s.key())
	if err != nil {
		if !errors.Is(err, ports.ErrTokenNotFound) {
			s.logger.Warn("load persisted token failed", "error", err)
		}
		return
	}

	identity, err := s.decoder.Decode(token)
	if err == nil && identity.Expired(s.now()) {
		err = errors.New("token expired")
	}
	if err != nil {
		s.logger.Info("discarding persisted token", "reason", err.Error())
		s.forget(ctx)
		return
	}

	s.set(identity, token)
	metrics.Login(s.metrics, "recover", nil)
}

// Login authenticates with email and password.
func (s *Session) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	fields := map[string]string{}
	if creds.Email == "" {
		fields["email"] = "Email is required."
	}
	if creds.Password == "" {
		fields["password"] = "Password is required."
	}
	if err := apperrors.ValidationFields(fields); err != nil {
		return domainauth.Identity{}, err
	}

	token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		metrics.Login(s.metrics, "password", err)
		return domainauth.Identity{}, err
	}
	identity, err := s.establish(ctx, token)
	metrics.Login(s.metrics, "password", err)
	return identity, err
}

// LoginWithFederatedProvider authenticates with a profile obtained from an identity provider.
func (s *Session) LoginWithFederatedProvider(ctx context.Context, profile domainauth.ProviderProfile) (domainauth.Identity, error) {
	if strings.TrimSpace(profile.Email) == "" {
		return domainauth.Identity{}, apperrors.ValidationField("email", "The provider did not share an email address.")
	}

	token, err := s.gateway.FederatedLogin(ctx, profile)
	if err != nil {
		metrics.Login(s.metrics, "federated", err)
		return domainauth.Identity{}, err
	}
	identity, err := s.establish(ctx, token)
	metrics.Login(s.metrics, "federated", err)
	return identity, err
}

// Register creates an account. It does not log the user in.
func (s *Session) Register(ctx context.Context, r domainauth.Registration) (domainauth.RegistrationResult, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if err := ValidateRegistration(r); err != nil {
		return domainauth.RegistrationResult{}, err
	}
	return s.gateway.Register(ctx, r)
}

// ValidateRegistration applies the sign-up form rules.
func ValidateRegistration(r domainauth.Registration) error {
	fields := map[string]string{}
	if r.Username == "" {
		fields["username"] = "Username is required."
	}
	switch {
	case r.Email == "":
		fields["email"] = "Email is required."
	case !emailShape.MatchString(r.Email):
		fields["email"] = "Please enter a valid email address."
	}
	switch {
	case r.Password == "":
		fields["password"] = "Password is required."
	case len(r.Password) < MinPasswordLength:
		fields["password"] = "Password must be at least 8 characters long."
	case r.ConfirmPassword != r.Password:
		fields["confirmPassword"] = "Passwords do not match."
	}
	return apperrors.ValidationFields(fields)
}

// Logout forgets the identity immediately and removes the persisted token.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	wasIn := s.identity != nil
	s.identity = nil
	s.token = ""
	s.epoch++
	s.mu.Unlock()

	s.publish(domainauth.Identity{}, false)
	s.deleteToken(ctx)
	if wasIn {
		metrics.Logout(s.metrics)
	}
}

// Current returns the identity, if any. An identity whose token has expired
// is dropped here, so callers never see a stale one.
func (s *Session) Current() (domainauth.Identity, bool) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return domainauth.Identity{}, false
	}
	if s.identity.Expired(s.now()) {
		s.identity = nil
		s.token = ""
		s.epoch++
		s.mu.Unlock()
		s.logger.Info("access token expired")
		s.publish(domainauth.Identity{}, false)
		return domainauth.Identity{}, false
	}
	id := *s.identity
	s.mu.Unlock()
	return id, true
}

// Credentials returns the bearer token together with the epoch it belongs to.
func (s *Session) Credentials() (token string, epoch uint64, ok bool) {
	if _, ok := s.Current(); !ok {
		return "", s.Epoch(), false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return "", s.epoch, false
	}
	return s.token, s.epoch, true
}

// Epoch increments on every identity change.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers fn for identity changes and returns its cancel func.
func (s *Session) Subscribe(fn SessionObserver) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) establish(ctx context.Context, token string) (domainauth.Identity, error) {
	identity, err := s.decoder.Decode(token)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeAuthentication, "invalid access token")
	}
	if identity.Expired(s.now()) {
		return domainauth.Identity{}, apperrors.Authentication("access token already expired")
	}

	// The in-memory identity stays authoritative; a failed save only costs recovery.
	if err := s.store.Save(ctx, s.key(), token, identity.TokenExpiry); err != nil {
		s.logger.Warn("persist token failed", "error", err)
	}
	s.set(identity, token)
	s.logger.Info("logged in", "user", identity.Email, "role", identity.Role)
	return identity, nil
}

func (s *Session) set(identity domainauth.Identity, token string) {
	s.mu.Lock()
	s.identity = &identity
	s.token = token
	s.epoch++
	s.mu.Unlock()
	s.publish(identity, true)
}

func (s *Session) forget(ctx context.Context) {
	s.mu.Lock()
	changed := s.identity != nil
	s.identity = nil
	s.token = ""
	if changed {
		s.epoch++
	}
	s.mu.Unlock()
	if changed {
		s.publish(domainauth.Identity{}, false)
	}
	s.deleteToken(ctx)
}

func (s *Session) deleteToken(ctx context.Context) {
	s.deleteTokenAt(ctx, s.key())
}

func (s *Session) deleteTokenAt(ctx context.Context, clientID string) {
	if err := s.store.Delete(ctx, clientID); err != nil {
		s.logger.Warn("delete persisted token failed", "error", err)
	}
}

func (s *Session) key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientID
}

// moveTo re-keys the persisted token under clientID and drops the old entry.
func (s *Session) moveTo(ctx context.Context, clientID string) {
	s.mu.Lock()
	oldID := s.clientID
	s.clientID = clientID
	token := s.token
	var expiry time.Time
	if s.identity != nil {
		expiry = s.identity.TokenExpiry
	}
	s.mu.Unlock()

	if oldID == clientID {
		return
	}
	if token != "" {
		if err := s.store.Save(ctx, clientID, token, expiry); err != nil {
			s.logger.Warn("persist token failed", "error", err)
		}
	}
	s.deleteTokenAt(ctx, oldID)
}

func (s *Session) publish(identity domainauth.Identity, ok bool) {
	s.mu.Lock()
	observers := make([]SessionObserver, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(identity, ok)
	}
}
