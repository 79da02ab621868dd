package config

import (
	"strings"
	"time"
)

// SearchConfig bounds result paging.
type SearchConfig struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE"     envDefault:"100"`
}

// Sanitize keeps 1 <= DefaultPageSize <= MaxPageSize.
func (s *SearchConfig) Sanitize() {
	if s.MaxPageSize < 1 {
		s.MaxPageSize = 100
	}
	if s.DefaultPageSize < 1 {
		s.DefaultPageSize = 10
	}
	if s.DefaultPageSize > s.MaxPageSize {
		s.DefaultPageSize = s.MaxPageSize
	}
}

// PresentationConfig controls how listings are rendered.
type PresentationConfig struct {
	Locale   string `env:"LOCALE"   envDefault:"it-IT"`
	Currency string `env:"CURRENCY" envDefault:"EUR"`

	// PlaceholderImage replaces missing listing photos; empty uses the stock image.
	PlaceholderImage string `env:"PLACEHOLDER_IMAGE"`
}

// Sanitize normalises the locale and currency code.
func (p *PresentationConfig) Sanitize() {
	p.Locale = strings.TrimSpace(p.Locale)
	if p.Locale == "" {
		p.Locale = "it-IT"
	}
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	p.PlaceholderImage = strings.TrimSpace(p.PlaceholderImage)
}

// ClientsConfig bounds the per-browser client registry.
type ClientsConfig struct {
	Capacity int           `env:"CAPACITY" envDefault:"10000"`
	IdleTTL  time.Duration `env:"IDLE_TTL" envDefault:"2h"`
}

// Sanitize applies minimums.
func (c *ClientsConfig) Sanitize() {
	if c.Capacity < 1 {
		c.Capacity = 10000
	}
	if c.IdleTTL < time.Minute {
		c.IdleTTL = time.Minute
	}
}
