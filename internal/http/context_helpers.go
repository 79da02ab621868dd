package httpx

import (
	"context"

	"github.com/dietiestates/estates-web/internal/service"
)

// clientKey is an unexported context key type to avoid collisions across packages.
type clientKey struct{}

// SetClientInContext returns a child context that carries the given client.
// If client is nil, the original ctx is returned unchanged.
func SetClientInContext(ctx context.Context, client *service.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClientFromContext returns the browser client and a boolean indicating presence.
func GetClientFromContext(ctx context.Context) (*service.Client, bool) {
	if c, ok := ctx.Value(clientKey{}).(*service.Client); ok && c != nil {
		return c, true
	}
	return nil, false
}
