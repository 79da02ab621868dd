package config

import "strings"

// RedisConfig contains Redis configuration for the token store.
type RedisConfig struct {
	// URI is host:port or a redis:// URL. Empty keeps tokens in memory.
	URI                string   `env:"URI"                  envDefault:""`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`

	// KeyPrefix namespaces token keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"token:"`
}

// Sanitize trims addresses.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	r.SentinelNodes = trimAll(r.SentinelNodes)
	r.ClusterNodes = trimAll(r.ClusterNodes)
	if r.KeyPrefix == "" {
		r.KeyPrefix = "token:"
	}
}

// Enabled reports whether any Redis topology is configured.
func (r *RedisConfig) Enabled() bool {
	switch {
	case r.UseCluster:
		return len(r.ClusterNodes) > 0 || r.URI != ""
	case r.UseSentinel:
		return len(r.SentinelNodes) > 0
	default:
		return r.URI != ""
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
