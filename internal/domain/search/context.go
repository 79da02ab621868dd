// Package search holds the pure parts of the property search: the search
// context derived from the URL and the local filter predicates.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dietiestates/estates-web/internal/domain/listing"
)

// Query parameter names of the search view.
const (
	ParamLocation = "location"
	ParamType     = "type"
	ParamPage     = "page"
	ParamSize     = "size"
)

// Paging bounds the page size accepted from URLs.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPaging matches the marketplace client's results grid.
var DefaultPaging = Paging{DefaultSize: 10, MaxSize: 100}

// Context is what to fetch from the server. It is replaced wholesale on
// every navigation and never mutated in place.
type Context struct {
	Location string            `json:"location"`
	Type     *listing.SaleType `json:"type,omitempty"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

// HasLocation reports whether a fetch is warranted.
func (c Context) HasLocation() bool { return c.Location != "" }

// ParseContext derives a Context from URL query parameters. It is tolerant:
// unknown types are ignored, bad pages become 0, bad sizes the default.
func ParseContext(q url.Values, p Paging) Context {
	p = p.normalize()

	c := Context{
		Location: strings.TrimSpace(q.Get(ParamLocation)),
		Page:     intParam(q, ParamPage, 0),
		Size:     intParam(q, ParamSize, p.DefaultSize),
	}
	if st, ok := listing.ParseSaleType(q.Get(ParamType)); ok {
		c.Type = &st
	}
	if c.Page < 0 {
		c.Page = 0
	}
	if c.Size < 1 {
		c.Size = p.DefaultSize
	}
	if c.Size > p.MaxSize {
		c.Size = p.MaxSize
	}
	return c
}

// WithPage returns a copy of c pointing at page.
func (c Context) WithPage(page int) Context {
	if page < 0 {
		page = 0
	}
	next := c
	next.Page = page
	return next
}

// Values encodes c back into query parameters.
func (c Context) Values() url.Values {
	q := url.Values{}
	if c.Location != "" {
		q.Set(ParamLocation, c.Location)
	}
	if c.Type != nil {
		q.Set(ParamType, string(*c.Type))
	}
	q.Set(ParamPage, strconv.Itoa(c.Page))
	q.Set(ParamSize, strconv.Itoa(c.Size))
	return q
}

func (p Paging) normalize() Paging {
	if p.DefaultSize < 1 {
		p.DefaultSize = DefaultPaging.DefaultSize
	}
	if p.MaxSize < p.DefaultSize {
		p.MaxSize = p.DefaultSize
	}
	return p
}

func intParam(q url.Values, key string, def int) int {
	if v := strings.TrimSpace(q.Get(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
