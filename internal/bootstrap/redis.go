package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dietiestates/estates-web/config"
)

const redisPingTimeout = 5 * time.Second

// redisEndpoint is one Redis address with the credentials that apply to it.
type redisEndpoint struct {
	addr     string
	username string
	password string
	db       int
	tls      *tls.Config
}

// parseRedisEndpoint accepts host:port or a redis:// / rediss:// URL.
// Credentials in the URL win over the configured password.
func parseRedisEndpoint(uri, password string) (redisEndpoint, error) {
	uri = strings.TrimSpace(uri)
	if !isRedisURL(uri) {
		return redisEndpoint{addr: uri, password: password}, nil
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return redisEndpoint{}, fmt.Errorf("parse redis url: %w", err)
	}
	ep := redisEndpoint{
		addr:     opt.Addr,
		username: opt.Username,
		password: password,
		db:       opt.DB,
		tls:      opt.TLSConfig,
	}
	if opt.Password != "" {
		ep.password = opt.Password
	}
	return ep, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// ConnectRedis connects to the token store's Redis and pings it. The
// returned description never contains credentials.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	client, desc, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", desc, pingErr)
	}

	if logger != nil {
		logger.Info("redis connected", "addr", desc)
	}
	return client, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newRedisClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	switch {
	case cfg.UseCluster:
		addrs := cfg.ClusterNodes
		ep := redisEndpoint{password: cfg.Password}
		if len(addrs) == 0 && cfg.URI != "" {
			var err error
			if ep, err = parseRedisEndpoint(cfg.URI, cfg.Password); err != nil {
				return nil, "", err
			}
			addrs = []string{ep.addr}
		}
		if len(addrs) == 0 {
			return nil, "", errors.New("redis cluster configuration requires at least one address")
		}
		client := redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     addrs,
			Username:  ep.username,
			Password:  ep.password,
			TLSConfig: ep.tls,
		})
		return client, "cluster:" + strings.Join(addrs, ","), nil

	case cfg.UseSentinel:
		return newSentinelClient(cfg)

	default:
		if cfg.URI == "" {
			return nil, "", errors.New("redis direct configuration requires a URI")
		}
		ep, err := parseRedisEndpoint(cfg.URI, cfg.Password)
		if err != nil {
			return nil, "", err
		}
		client := redis.NewClient(&redis.Options{
			Addr:      ep.addr,
			Username:  ep.username,
			Password:  ep.password,
			DB:        ep.db,
			TLSConfig: ep.tls,
		})
		return client, ep.addr, nil
	}
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	if len(cfg.SentinelNodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}
	client := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    cfg.SentinelNodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
	})
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}
