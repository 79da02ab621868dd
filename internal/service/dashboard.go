package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dietiestates/estates-web/internal/domain/listing"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/ports"
)

// DashboardSnapshot is what the agent dashboard shows.
type DashboardSnapshot struct {
	Stats    listing.AgentStats `json:"stats"`
	Offers   StatusCounts       `json:"offers"`
	Bookings StatusCounts       `json:"bookings"`
}

// LoadDashboard refreshes both boards and the agent statistics concurrently.
// The first failure cancels the other calls.
func LoadDashboard(ctx context.Context, c *Client, users ports.UserClient) (DashboardSnapshot, error) {
	token, epoch, ok := c.Session.Credentials()
	if !ok {
		return DashboardSnapshot{}, apperrors.Authentication("login required")
	}

	var stats listing.AgentStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Offers.Load(gctx) })
	g.Go(func() error { return c.Bookings.Load(gctx) })
	g.Go(func() error {
		s, err := users.AgentStats(gctx, token)
		if err != nil {
			return fmt.Errorf("agent stats: %w", err)
		}
		stats = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardSnapshot{}, err
	}
	if c.Session.Epoch() != epoch {
		return DashboardSnapshot{}, apperrors.Authentication("session changed while loading")
	}

	offers, err := c.Offers.View(StatusFilterAll)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	bookings, err := c.Bookings.View(StatusFilterAll)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	return DashboardSnapshot{Stats: stats, Offers: offers.Counts, Bookings: bookings.Counts}, nil
}
