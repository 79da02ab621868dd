package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dietiestates/estates-web/internal/adapters/memory"
	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/domain/search"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/mocks"
	authmocks "github.com/dietiestates/estates-web/internal/mocks/auth"
	"github.com/dietiestates/estates-web/internal/ports"
	"github.com/dietiestates/estates-web/internal/present"
	"github.com/dietiestates/estates-web/internal/service"
)

const (
	agentEmail   = "anna@agency.it"
	userEmail    = "marco@mail.it"
	managerEmail = "giulia@agency.it"
	testPassword = "secret-pass"
)

var identities = map[string]domainauth.Identity{
	"agent-token":   {SubjectID: "1", Username: "anna", Email: agentEmail, Role: domainauth.RoleAgent},
	"user-token":    {SubjectID: "2", Username: "marco", Email: userEmail, Role: domainauth.RoleUser},
	"manager-token": {SubjectID: "3", Username: "giulia", Email: managerEmail, Role: domainauth.RoleManager},
}

var tokensByEmail = map[string]string{
	agentEmail:   "agent-token",
	userEmail:    "user-token",
	managerEmail: "manager-token",
}

func ptr[T any](v T) *T { return &v }

// fakeCatalog serves listings from a map.
type fakeCatalog struct {
	mu      sync.Mutex
	props   map[int64]listing.Property
	created []ports.NewProperty
}

func (c *fakeCatalog) Search(context.Context, ports.SearchQuery) (listing.ResultPage, error) {
	return listing.ResultPage{}, nil
}

func (c *fakeCatalog) Get(_ context.Context, _ string, id int64) (listing.Property, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.props[id]
	if !ok {
		return listing.Property{}, apperrors.NotFoundf("property %d not found", id)
	}
	return p, nil
}

func (c *fakeCatalog) Create(_ context.Context, _ string, p ports.NewProperty) (listing.Property, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, p)
	return listing.Property{ID: 99, Price: ptr(p.Price), SaleType: p.SaleType, Description: p.Description}, nil
}

// fakeUsers records user-management calls.
type fakeUsers struct {
	mu          sync.Mutex
	stats       listing.AgentStats
	hasPassword bool
	created     []ports.NewUser
	changes     []ports.PasswordChange
}

func (u *fakeUsers) Create(_ context.Context, _ string, nu ports.NewUser) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.created = append(u.created, nu)
	return nil
}

func (u *fakeUsers) HasPassword(context.Context, string, string) (bool, error) {
	return u.hasPassword, nil
}

func (u *fakeUsers) ChangePassword(_ context.Context, _ string, c ports.PasswordChange) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.changes = append(u.changes, c)
	return nil
}

func (u *fakeUsers) AgentStats(context.Context, string) (listing.AgentStats, error) {
	return u.stats, nil
}

type testEnv struct {
	server    *httptest.Server
	registry  *service.Registry
	tokens    *memory.TokenStore
	searcher  *mocks.MockPropertySearcher
	offers    *mocks.MockOfferClient
	visits    *mocks.MockVisitClient
	catalog   *fakeCatalog
	users     *fakeUsers
	federated *authmocks.MockFederatedProvider
}

type envOption func(*RouterServices)

func withoutFederated() envOption {
	return func(s *RouterServices) { s.Federated = nil }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		searcher:  mocks.NewMockPropertySearcher(ctrl),
		offers:    mocks.NewMockOfferClient(ctrl),
		visits:    mocks.NewMockVisitClient(ctrl),
		catalog:   &fakeCatalog{props: map[int64]listing.Property{}},
		users:     &fakeUsers{hasPassword: true},
		federated: authmocks.NewMockFederatedProvider(),
	}
	gateway := &authmocks.MockAuthGateway{
		LoginFunc: func(_ context.Context, creds domainauth.Credentials) (string, error) {
			token, ok := tokensByEmail[creds.Email]
			if !ok || creds.Password != testPassword {
				return "", apperrors.Authentication("Invalid email or password.")
			}
			return token, nil
		},
		FederatedLoginFunc: func(context.Context, domainauth.ProviderProfile) (string, error) {
			return "user-token", nil
		},
	}
	env.tokens = memory.NewTokenStore()
	env.registry = service.NewRegistry(service.ClientDeps{
		Store:    env.tokens,
		Gateway:  gateway,
		Decoder:  authmocks.MapDecoder{Tokens: identities},
		Searcher: env.searcher,
		Offers:   env.offers,
		Visits:   env.visits,
		Paging:   search.DefaultPaging,
		Logger:   logger,
	}, service.DefaultRegistryConfig())

	market := service.NewMarketplace(service.MarketplaceOptions{
		Catalog: env.catalog,
		Visits:  env.visits,
		Offers:  env.offers,
		Users:   env.users,
		Logger:  logger,
		Now:     func() time.Time { return time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC) },
	})

	services := RouterServices{
		Registry:  env.registry,
		Market:    market,
		Presenter: present.New(present.Options{}),
		Federated: env.federated,
		Logger:    logger,
	}
	for _, o := range opts {
		o(&services)
	}
	env.server = httptest.NewServer(NewRouter(services))
	t.Cleanup(env.server.Close)
	return env
}

// browser is an HTTP client with a cookie jar that echoes the CSRF cookie.
type browser struct {
	t      *testing.T
	env    *testEnv
	client *http.Client
}

func (e *testEnv) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:   t,
		env: e,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) cookie(name string) string {
	u, err := url.Parse(b.env.server.URL)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (b *browser) setCookie(name, value string) {
	u, err := url.Parse(b.env.server.URL)
	require.NoError(b.t, err)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// do sends a request and returns the status and body. body is JSON-encoded
// unless it is nil.
func (b *browser) do(method, path string, body any) (int, []byte, http.Header) {
	b.t.Helper()
	if requiresCSRFValidation(method) && b.cookie(DefaultCSRFCookieName) == "" {
		b.do(http.MethodGet, "/api/auth/me", nil)
	}

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.env.server.URL+path, rd)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := b.cookie(DefaultCSRFCookieName); token != "" {
		req.Header.Set(DefaultCSRFHeaderName, token)
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, out, resp.Header
}

func (b *browser) login(email string) {
	b.t.Helper()
	status, body, _ := b.do(http.MethodPost, "/api/auth/login", domainauth.Credentials{Email: email, Password: testPassword})
	require.Equal(b.t, http.StatusOK, status, string(body))
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
