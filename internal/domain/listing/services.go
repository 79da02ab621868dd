package listing

import "strings"

// CatalogEntry is a service offered by the marketplace with its icon.
type CatalogEntry struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Catalog lists every service a listing may declare, in panel order.
var Catalog = []CatalogEntry{
	{Name: "concierge", Emoji: "🛎️"},
	{Name: "air conditioning", Emoji: "❄️"},
	{Name: "close to schools", Emoji: "🏫"},
	{Name: "close to parks", Emoji: "🌳"},
	{Name: "close to public transport", Emoji: "🚇"},
	{Name: "elevator", Emoji: "🛗"},
	{Name: "heating", Emoji: "🔥"},
	{Name: "garage", Emoji: "🚗"},
	{Name: "Cellar", Emoji: "🍷"},
	{Name: "balcony", Emoji: "🌇"},
	{Name: "terrace", Emoji: "🪴"},
}

// LookupService finds a catalog entry by case-insensitive name.
func LookupService(name string) (CatalogEntry, bool) {
	n := strings.TrimSpace(name)
	for _, e := range Catalog {
		if strings.EqualFold(e.Name, n) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
