// Package present projects listings into the shapes the client renders:
// result cards, the detail page and map markers.
package present

import (
	"strconv"
	"strings"

	"github.com/dietiestates/estates-web/internal/domain/listing"
)

// Placeholder texts for missing listing data.
const (
	AddressUnavailable  = "Address not available"
	LocationUnavailable = "Location not available"
	ZipUnavailable      = "Zip Code not available"
	PriceUnavailable    = "Price not available"
	NotAvailable        = "N/A"
)

// DefaultCoverImage is shown for listings without images.
const DefaultCoverImage = "/notFound.jpg"

// Amenity is a nearby-service badge on a result card.
type Amenity struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// amenities is keyed by lower-cased service name.
var amenities = map[string]Amenity{
	"close to parks":            {Emoji: "🌳", Label: "Parks Nearby"},
	"close to schools":          {Emoji: "🏫", Label: "Schools Nearby"},
	"close to public transport": {Emoji: "🚇", Label: "Public Transport"},
}

// FormatAddress returns "street, houseNumber".
func FormatAddress(a *listing.Address) string {
	if a == nil || strings.TrimSpace(a.Street) == "" {
		return AddressUnavailable
	}
	if strings.TrimSpace(a.HouseNumber) == "" {
		return a.Street
	}
	return a.Street + ", " + a.HouseNumber
}

// FormatLocation returns the municipality name.
func FormatLocation(a *listing.Address) string {
	if a == nil || a.Municipality == nil || strings.TrimSpace(a.Municipality.Name) == "" {
		return LocationUnavailable
	}
	return a.Municipality.Name
}

// FormatZip returns the municipality zip code.
func FormatZip(a *listing.Address) string {
	if a == nil || a.Municipality == nil || strings.TrimSpace(a.Municipality.ZipCode) == "" {
		return ZipUnavailable
	}
	return a.Municipality.ZipCode
}

// FormatRooms renders the room count; zero counts as missing.
func FormatRooms(n *int) string {
	if n == nil || *n == 0 {
		return NotAvailable
	}
	return strconv.Itoa(*n)
}

// FormatSquareMeters renders the surface without trailing zeros; zero counts as missing.
func FormatSquareMeters(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// NearbyAmenities returns the proximity badges of p in service order.
// Services without a badge are left out.
func NearbyAmenities(p listing.Property) []Amenity {
	out := []Amenity{}
	for _, s := range p.Services {
		if a, ok := amenities[strings.ToLower(strings.TrimSpace(s.ServiceName))]; ok {
			out = append(out, a)
		}
	}
	return out
}

// CoverImage returns the first image of p, or placeholder.
func CoverImage(p listing.Property, placeholder string) string {
	for _, u := range p.ImageURLs {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	if placeholder == "" {
		return DefaultCoverImage
	}
	return placeholder
}
