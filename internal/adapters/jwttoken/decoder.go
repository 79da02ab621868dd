// Package jwttoken decodes backend-issued JWT access tokens into identities.
package jwttoken

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dietiestates/estates-web/internal/adapters/authroles"
	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/ports"
)

var _ ports.TokenDecoder = (*Decoder)(nil)

// Claims are the marketplace access token claims.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Config configures a Decoder.
type Config struct {
	// Secret is the backend's HMAC signing key. When empty, signatures are
	// not verified and the token is only decoded.
	Secret string
	// Roles maps the role claim; nil uses a zero ClaimRoleMapper.
	Roles ports.RoleMapper
}

// Decoder turns access tokens into identities.
// Expiry is reported, not enforced: callers compare TokenExpiry with their clock.
type Decoder struct {
	secret []byte
	roles  ports.RoleMapper
	parser *jwt.Parser
}

// NewDecoder creates a Decoder.
func NewDecoder(cfg Config) *Decoder {
	roles := cfg.Roles
	if roles == nil {
		roles = authroles.ClaimRoleMapper{}
	}
	return &Decoder{
		secret: []byte(cfg.Secret),
		roles:  roles,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Verifies reports whether signatures are checked.
func (d *Decoder) Verifies() bool { return len(d.secret) > 0 }

// Decode parses token and maps its claims to an Identity.
func (d *Decoder) Decode(token string) (domainauth.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return domainauth.Identity{}, errors.New("empty token")
	}

	var claims Claims
	if d.Verifies() {
		if _, err := d.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return d.secret, nil
		}); err != nil {
			return domainauth.Identity{}, fmt.Errorf("parse token: %w", err)
		}
	} else {
		if _, _, err := d.parser.ParseUnverified(token, &claims); err != nil {
			return domainauth.Identity{}, fmt.Errorf("decode token: %w", err)
		}
	}

	return d.identity(claims)
}

func (d *Decoder) identity(c Claims) (domainauth.Identity, error) {
	if c.ExpiresAt == nil {
		return domainauth.Identity{}, errors.New("token has no expiry")
	}
	if c.Role == "" {
		return domainauth.Identity{}, errors.New("token has no role")
	}

	email := c.Email
	if email == "" && strings.Contains(c.Subject, "@") {
		email = c.Subject
	}
	if c.Subject == "" && email == "" {
		return domainauth.Identity{}, errors.New("token has no subject")
	}

	username := c.Username
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	return domainauth.Identity{
		SubjectID:   c.Subject,
		Username:    username,
		Email:       email,
		Role:        d.roles.Map(c.Role),
		TokenExpiry: c.ExpiresAt.Time,
	}, nil
}
