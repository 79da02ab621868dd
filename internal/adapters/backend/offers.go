package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/ports"
)

// Offers adapts the client to ports.OfferClient.
type Offers struct{ c *Client }

// Offers returns the offer endpoints.
func (c *Client) Offers() Offers { return Offers{c: c} }

var _ ports.OfferClient = Offers{}

func (o Offers) Make(ctx context.Context, token string, propertyID int64, price float64) error {
	return o.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/offers",
		token:  token,
		body:   map[string]any{"propertyId": propertyID, "offerPrice": price},
		op:     "make offer",
	}, nil)
}

func (o Offers) ListForAgent(ctx context.Context, token string) ([]listing.Offer, error) {
	var out []listing.Offer
	err := o.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/offers/agent",
		token:  token,
		op:     "list offers",
	}, &out)
	return out, err
}

func (o Offers) SetStatus(ctx context.Context, token string, id int64, status listing.ReviewStatus) error {
	return o.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/offers/" + strconv.FormatInt(id, 10) + "/status",
		token:  token,
		body:   map[string]string{"status": string(status)},
		op:     "update offer",
	}, nil)
}

func (o Offers) Delete(ctx context.Context, token string, id int64) error {
	return o.c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/offers/" + strconv.FormatInt(id, 10),
		token:  token,
		op:     "delete offer",
	}, nil)
}
