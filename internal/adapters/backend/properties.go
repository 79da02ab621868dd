package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/ports"
)

var _ ports.PropertyCatalog = (*Client)(nil)

// searchResponse accepts both the documented shape and a Spring Data page.
type searchResponse struct {
	Items         []listing.Property `json:"items"`
	Content       []listing.Property `json:"content"`
	TotalPages    int                `json:"totalPages"`
	TotalElements int                `json:"totalElements"`
	CurrentPage   *int               `json:"currentPage"`
	Number        *int               `json:"number"`
}

func (r searchResponse) page() listing.ResultPage {
	items := r.Items
	if items == nil {
		items = r.Content
	}
	if items == nil {
		items = []listing.Property{}
	}
	current := 0
	switch {
	case r.CurrentPage != nil:
		current = *r.CurrentPage
	case r.Number != nil:
		current = *r.Number
	}
	return listing.ResultPage{
		Items:         items,
		TotalPages:    r.TotalPages,
		TotalElements: r.TotalElements,
		CurrentPage:   current,
	}
}

// Search fetches one page of listings for a location.
func (c *Client) Search(ctx context.Context, q ports.SearchQuery) (listing.ResultPage, error) {
	var out searchResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/properties/search",
		query: url.Values{
			"location": {q.Location},
			"page":     {strconv.Itoa(q.Page)},
			"size":     {strconv.Itoa(q.Size)},
		},
		op: "search properties",
	}, &out)
	if err != nil {
		return listing.ResultPage{}, err
	}
	return out.page(), nil
}

// Get fetches one listing.
func (c *Client) Get(ctx context.Context, token string, id int64) (listing.Property, error) {
	var out listing.Property
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/properties/" + strconv.FormatInt(id, 10),
		token:  token,
		op:     "get property",
	}, &out)
	return out, err
}

// Create publishes a new listing on behalf of an agent.
func (c *Client) Create(ctx context.Context, token string, p ports.NewProperty) (listing.Property, error) {
	var out listing.Property
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/properties",
		token:  token,
		body:   p,
		op:     "create property",
	}, &out)
	return out, err
}
