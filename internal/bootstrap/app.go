package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dietiestates/estates-web/config"
	"github.com/dietiestates/estates-web/internal/adapters/backend"
	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/search"
	httpx "github.com/dietiestates/estates-web/internal/http"
	"github.com/dietiestates/estates-web/internal/observability/statsd"
	"github.com/dietiestates/estates-web/internal/present"
	"github.com/dietiestates/estates-web/internal/service"
)

// AppDeps are the inputs to BuildApp. Redis may be nil.
type AppDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// App is the wired application: the HTTP handler plus the resources that
// must be released on shutdown.
type App struct {
	Handler  http.Handler
	Registry *service.Registry
	Metrics  *statsd.Client
}

// Close releases the metrics connection.
func (a *App) Close() error {
	if a == nil || a.Metrics == nil {
		return nil
	}
	return a.Metrics.Close()
}

// BuildApp constructs adapters, services and the router from configuration.
func BuildApp(ctx context.Context, deps AppDeps) (*App, error) {
	if deps.Config == nil {
		return nil, errors.New("app config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.Observability.Metrics.IsEnabled(),
		Address:    cfg.Observability.Metrics.StatsdAddress,
		Prefix:     cfg.Observability.Metrics.Prefix,
		Logger:     logger,
		GlobalTags: map[string]string{"service": "estates-web"},
	})
	if err != nil {
		logger.WarnContext(ctx, "statsd disabled", "error", err)
		metrics = nil
	}

	api, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	federated, err := BuildFederatedProvider(ctx, FederatedConfig{
		Auth:    cfg.Auth,
		BaseURL: cfg.HTTP.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	prices, err := present.NewPriceFormatter(cfg.Presentation.Locale, cfg.Presentation.Currency)
	if err != nil {
		return nil, fmt.Errorf("create price formatter: %w", err)
	}

	permissions := domainauth.DefaultPermissions()
	var sink statsd.Sink = statsd.Discard
	if metrics != nil {
		sink = metrics
	}

	registry := service.NewRegistry(service.ClientDeps{
		Store:       BuildTokenStore(deps.RedisClient, cfg.Redis.KeyPrefix),
		Gateway:     api,
		Decoder:     BuildTokenDecoder(cfg.Auth),
		Searcher:    api,
		Offers:      api.Offers(),
		Visits:      api.Visits(),
		Permissions: permissions,
		Paging:      search.Paging{DefaultSize: cfg.Search.DefaultPageSize, MaxSize: cfg.Search.MaxPageSize},
		Logger:      logger,
		Metrics:     sink,
	}, service.RegistryConfig{
		Capacity: cfg.Clients.Capacity,
		IdleTTL:  cfg.Clients.IdleTTL,
	})

	market := service.NewMarketplace(service.MarketplaceOptions{
		Catalog:     api,
		Visits:      api.Visits(),
		Offers:      api.Offers(),
		Users:       api.Users(),
		Permissions: permissions,
		Logger:      logger,
	})

	handler := httpx.NewRouter(httpx.RouterServices{
		Registry:    registry,
		Market:      market,
		Presenter:   present.New(present.Options{Prices: prices, Placeholder: cfg.Presentation.PlaceholderImage}),
		Permissions: permissions,
		Federated:   federated,
		Cookies:     httpx.CookieConfig{Domain: cfg.HTTP.CookieDomain, Secure: cfg.HTTP.SecureCookies},
		DisableCSRF: cfg.HTTP.DisableCSRF,
		Logger:      logger,
	})

	return &App{Handler: handler, Registry: registry, Metrics: metrics}, nil
}
