package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBackendTimeout = 10 * time.Second
	maxBackendTimeout     = 2 * time.Minute
)

// BackendConfig points the client at the marketplace REST backend.
type BackendConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`
}

// Sanitize clamps the timeout to (0, 2m].
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimSuffix(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = defaultBackendTimeout
	}
	if b.Timeout > maxBackendTimeout {
		b.Timeout = maxBackendTimeout
	}
}

// Validate requires an absolute http(s) base URL.
func (b *BackendConfig) Validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("BACKEND_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute http(s) URL, got %q", b.BaseURL)
	}
	return nil
}
