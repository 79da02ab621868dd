package present

import (
	"slices"

	"github.com/dietiestates/estates-web/internal/domain/listing"
)

// Card is a search result card.
type Card struct {
	ID           int64            `json:"id"`
	Image        string           `json:"image"`
	Price        string           `json:"price"`
	Rooms        string           `json:"rooms"`
	SquareMeters string           `json:"squareMeters"`
	Address      string           `json:"address"`
	Location     string           `json:"location"`
	ZipCode      string           `json:"zipCode"`
	SaleType     listing.SaleType `json:"saleType,omitempty"`
	Amenities    []Amenity        `json:"amenities"`
	Highlighted  bool             `json:"highlighted"`
}

// ServiceBadge is a service on the detail page.
type ServiceBadge struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

// Detail is the property detail page.
type Detail struct {
	Card
	Description string              `json:"description"`
	EnergyClass listing.EnergyClass `json:"energyClass,omitempty"`
	RawPrice    *float64            `json:"rawPrice,omitempty"`
	Images      []string            `json:"images"`
	Services    []ServiceBadge      `json:"services"`
	Marker      *Marker             `json:"marker,omitempty"`
}

// Marker is a map pin.
type Marker struct {
	ID          int64   `json:"id"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	Highlighted bool    `json:"highlighted"`
}

// Options configure a Presenter.
type Options struct {
	Prices      *PriceFormatter
	Placeholder string
}

// Presenter builds the projections. It holds no per-client state.
type Presenter struct {
	prices      *PriceFormatter
	placeholder string
}

// New returns a Presenter, defaulting to euro prices and the stock placeholder image.
func New(opts Options) *Presenter {
	p := &Presenter{prices: opts.Prices, placeholder: opts.Placeholder}
	if p.prices == nil {
		p.prices = DefaultPriceFormatter()
	}
	if p.placeholder == "" {
		p.placeholder = DefaultCoverImage
	}
	return p
}

// Prices exposes the formatter for offers and boards.
func (pr *Presenter) Prices() *PriceFormatter { return pr.prices }

// Card projects p. hovered is the id under the pointer, if any.
func (pr *Presenter) Card(p listing.Property, hovered *int64) Card {
	return Card{
		ID:           p.ID,
		Image:        CoverImage(p, pr.placeholder),
		Price:        pr.prices.Format(p.Price),
		Rooms:        FormatRooms(p.NumberOfRooms),
		SquareMeters: FormatSquareMeters(p.SquareMeters),
		Address:      FormatAddress(p.Address),
		Location:     FormatLocation(p.Address),
		ZipCode:      FormatZip(p.Address),
		SaleType:     p.SaleType,
		Amenities:    NearbyAmenities(p),
		Highlighted:  hovered != nil && *hovered == p.ID,
	}
}

// Cards projects ps in order.
func (pr *Presenter) Cards(ps []listing.Property, hovered *int64) []Card {
	out := make([]Card, 0, len(ps))
	for _, p := range ps {
		out = append(out, pr.Card(p, hovered))
	}
	return out
}

// Detail projects p for its own page.
func (pr *Presenter) Detail(p listing.Property) Detail {
	d := Detail{
		Card:        pr.Card(p, nil),
		Description: p.Description,
		EnergyClass: p.EnergyClass,
		RawPrice:    p.Price,
		Images:      slices.Clone(p.ImageURLs),
		Services:    make([]ServiceBadge, 0, len(p.Services)),
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	for _, s := range p.Services {
		badge := ServiceBadge{Name: s.ServiceName}
		if e, ok := listing.LookupService(s.ServiceName); ok {
			badge.Emoji = e.Emoji
		}
		d.Services = append(d.Services, badge)
	}
	if m, ok := pr.Marker(p, nil); ok {
		d.Marker = &m
	}
	return d
}

// Marker projects p as a map pin. It reports false when p has no coordinates.
func (pr *Presenter) Marker(p listing.Property, hovered *int64) (Marker, bool) {
	a := p.Address
	if a == nil || a.Latitude == nil || a.Longitude == nil {
		return Marker{}, false
	}
	return Marker{
		ID:          p.ID,
		Lat:         *a.Latitude,
		Lon:         *a.Longitude,
		Title:       FormatAddress(a),
		Price:       pr.prices.Format(p.Price),
		Highlighted: hovered != nil && *hovered == p.ID,
	}, true
}

// Markers projects every listing that has coordinates.
func (pr *Presenter) Markers(ps []listing.Property, hovered *int64) []Marker {
	out := []Marker{}
	for _, p := range ps {
		if m, ok := pr.Marker(p, hovered); ok {
			out = append(out, m)
		}
	}
	return out
}
