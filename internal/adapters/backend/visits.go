package backend

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/ports"
)

// Visits adapts the client to ports.VisitClient.
type Visits struct{ c *Client }

// Visits returns the visit endpoints.
func (c *Client) Visits() Visits { return Visits{c: c} }

var _ ports.VisitClient = Visits{}

func (v Visits) Book(ctx context.Context, token string, propertyID int64, at time.Time) error {
	return v.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/visits/book",
		token:  token,
		body: map[string]any{
			"propertyId": propertyID,
			"visitDate":  at.UTC().Format(time.RFC3339),
		},
		op: "book visit",
	}, nil)
}

func (v Visits) BookedDates(ctx context.Context, token string, propertyID int64) ([]time.Time, error) {
	var raw []string
	if err := v.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/visits/property/" + strconv.FormatInt(propertyID, 10) + "/booked-dates",
		token:  token,
		op:     "booked dates",
	}, &raw); err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		t, ok := parseBackendTime(s)
		if !ok {
			v.c.logger.WarnContext(ctx, "skipping unparsable booked date", "value", s)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// backendTimeLayouts are tried in order; zoneless values are taken as UTC.
var backendTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func parseBackendTime(s string) (time.Time, bool) {
	for _, layout := range backendTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (v Visits) ListForAgent(ctx context.Context, token string) ([]listing.Visit, error) {
	var out []listing.Visit
	err := v.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/visits/agent",
		token:  token,
		op:     "list visits",
	}, &out)
	return out, err
}

func (v Visits) SetStatus(ctx context.Context, token string, id int64, status listing.ReviewStatus) error {
	return v.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/visits/" + strconv.FormatInt(id, 10) + "/status",
		token:  token,
		body:   map[string]string{"status": string(status)},
		op:     "update visit",
	}, nil)
}

func (v Visits) Delete(ctx context.Context, token string, id int64) error {
	return v.c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/visits/" + strconv.FormatInt(id, 10),
		token:  token,
		op:     "delete visit",
	}, nil)
}
