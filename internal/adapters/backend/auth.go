package backend

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/ports"
)

var _ ports.AuthGateway = (*Client)(nil)

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	// Token is accepted from older backends.
	Token string `json:"token"`
}

func (t tokenResponse) value() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Token
}

// Login exchanges email and password for an access token.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (string, error) {
	var out tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": strings.TrimSpace(creds.Email), "password": creds.Password},
		op:     "login",
	}, &out)
	if err != nil {
		// The login endpoint answers bad credentials with 400 or 404 as well.
		if apperrors.IsNotFound(err) || (apperrors.IsValidation(err) && apperrors.GetFields(err) == nil) {
			return "", apperrors.Authentication("invalid email or password")
		}
		return "", err
	}
	return requireToken("login", out)
}

// FederatedLogin exchanges a provider profile for an access token.
func (c *Client) FederatedLogin(ctx context.Context, p domainauth.ProviderProfile) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/federated-login",
		body:   p,
		op:     "federated login",
	}, &out); err != nil {
		return "", err
	}
	return requireToken("federated login", out)
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, r domainauth.Registration) (domainauth.RegistrationResult, error) {
	var out domainauth.RegistrationResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body: map[string]string{
			"email":    strings.TrimSpace(r.Email),
			"username": strings.TrimSpace(r.Username),
			"password": r.Password,
		},
		op: "register",
	}, &out)
	if err != nil {
		return domainauth.RegistrationResult{}, err
	}
	if out.Status == "" {
		out.Status = "registered"
	}
	return out, nil
}

func requireToken(op string, t tokenResponse) (string, error) {
	if v := t.value(); v != "" {
		return v, nil
	}
	return "", apperrors.Authentication(op + ": backend returned no access token")
}
