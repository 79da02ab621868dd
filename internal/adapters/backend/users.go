package backend

import (
	"context"
	"net/http"

	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/ports"
)

// Users adapts the client to ports.UserClient.
type Users struct{ c *Client }

// Users returns the account and user-management endpoints.
func (c *Client) Users() Users { return Users{c: c} }

var _ ports.UserClient = Users{}

func (u Users) Create(ctx context.Context, token string, nu ports.NewUser) error {
	return u.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/management/users",
		token:  token,
		body:   nu,
		op:     "create user",
	}, nil)
}

func (u Users) HasPassword(ctx context.Context, token, email string) (bool, error) {
	var out struct {
		HasPassword bool `json:"hasPassword"`
	}
	err := u.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user/" + email + "/has-password",
		token:  token,
		op:     "check password",
	}, &out)
	return out.HasPassword, err
}

func (u Users) ChangePassword(ctx context.Context, token string, pc ports.PasswordChange) error {
	return u.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/user/change-password",
		token:  token,
		body:   pc,
		op:     "change password",
	}, nil)
}

func (u Users) AgentStats(ctx context.Context, token string) (listing.AgentStats, error) {
	var out listing.AgentStats
	err := u.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/agent/dashboard",
		token:  token,
		op:     "agent stats",
	}, &out)
	return out, err
}
