package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dietiestates/estates-web/config"
	"github.com/dietiestates/estates-web/internal/adapters/authroles"
	"github.com/dietiestates/estates-web/internal/adapters/devauth"
	"github.com/dietiestates/estates-web/internal/adapters/jwttoken"
	"github.com/dietiestates/estates-web/internal/adapters/memory"
	"github.com/dietiestates/estates-web/internal/adapters/oidc"
	redisadapter "github.com/dietiestates/estates-web/internal/adapters/redis"
	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/ports"
)

// FederatedConfig contains configuration for the federated login provider.
type FederatedConfig struct {
	Auth    config.AuthConfig
	BaseURL string
	Logger  *slog.Logger
}

// BuildFederatedProvider creates the provider for the configured auth mode.
// Password mode returns nil, which disables /auth/federated/*.
//
//nolint:ireturn // the router takes the port; nil means disabled.
func BuildFederatedProvider(ctx context.Context, cfg FederatedConfig) (ports.FederatedProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeDev:
		if cfg.Logger != nil {
			cfg.Logger.Warn("dev federated login enabled", "email", cfg.Auth.DevAuth.Email)
		}
		prov, err := devauth.NewProvider(devauth.Config{
			Subject: cfg.Auth.DevAuth.Subject,
			Email:   cfg.Auth.DevAuth.Email,
			Name:    cfg.Auth.DevAuth.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		redirect := oauth.RedirectURL
		if redirect == "" {
			redirect = cfg.BaseURL + devauth.CallbackPath
		}
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			Name:         oauth.ProviderName,
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  redirect,
			Scope:        oauth.Scope,
			IssuerURL:    oauth.IssuerURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, nil
	}
}

// BuildTokenDecoder creates the access-token decoder with the configured
// role aliases.
func BuildTokenDecoder(cfg config.AuthConfig) *jwttoken.Decoder {
	var aliases map[string]domainauth.Role
	if len(cfg.RoleAliases) > 0 {
		aliases = make(map[string]domainauth.Role, len(cfg.RoleAliases))
		for claim, role := range cfg.RoleAliases {
			aliases[claim] = domainauth.ParseRole(role)
		}
	}
	return jwttoken.NewDecoder(jwttoken.Config{
		Secret: cfg.TokenSecret,
		Roles:  authroles.ClaimRoleMapper{Aliases: aliases},
	})
}

// BuildTokenStore keeps tokens in Redis when a client is given and in
// process memory otherwise.
//
//nolint:ireturn // callers only need the port.
func BuildTokenStore(client redis.UniversalClient, prefix string) ports.TokenStore {
	if client == nil {
		return memory.NewTokenStore()
	}
	return redisadapter.NewTokenStoreWithPrefix(client, prefix)
}
