package search

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dietiestates/estates-web/internal/domain/listing"
)

// TransactionType is the filter panel's sale/rent choice.
type TransactionType string

const (
	TransactionAny  TransactionType = "ANY"
	TransactionSale TransactionType = "SALE"
	TransactionRent TransactionType = "RENT"
)

// ParseTransactionType accepts the panel values rent/buy/any plus sale.
// Anything unrecognised means ANY.
func ParseTransactionType(s string) TransactionType {
	if strings.EqualFold(strings.TrimSpace(s), "any") {
		return TransactionAny
	}
	st, ok := listing.ParseSaleType(s)
	if !ok {
		return TransactionAny
	}
	return transactionFor(st)
}

func transactionFor(st listing.SaleType) TransactionType {
	if st == listing.SaleTypeRent {
		return TransactionRent
	}
	return TransactionSale
}

func (t TransactionType) matches(st listing.SaleType) bool {
	switch t {
	case TransactionSale:
		return st == listing.SaleTypeSale
	case TransactionRent:
		return st == listing.SaleTypeRent
	default:
		return true
	}
}

// Field names accepted by FilterState.With.
type Field string

const (
	FieldMinPrice        Field = "minPrice"
	FieldMaxPrice        Field = "maxPrice"
	FieldRooms           Field = "rooms"
	FieldEnergyClass     Field = "energyClass"
	FieldMunicipality    Field = "municipality"
	FieldTransactionType Field = "transactionType"
)

// FilterState is the filter panel. Nil bounds and an empty energy class or
// municipality mean "no predicate". Services is kept sorted.
type FilterState struct {
	MinPrice        *float64            `json:"minPrice"`
	MaxPrice        *float64            `json:"maxPrice"`
	Rooms           *int                `json:"rooms"`
	EnergyClass     listing.EnergyClass `json:"energyClass,omitempty"`
	Municipality    string              `json:"municipality,omitempty"`
	TransactionType TransactionType     `json:"transactionType"`
	Services        []string            `json:"selectedServices"`
}

// DefaultFilters returns the panel's reset state.
func DefaultFilters() FilterState {
	return FilterState{TransactionType: TransactionAny, Services: []string{}}
}

// SeededFilters returns the defaults with the transaction type implied by c.
func SeededFilters(c Context) FilterState {
	f := DefaultFilters()
	if c.Type != nil {
		f.TransactionType = transactionFor(*c.Type)
	}
	return f
}

// With returns a copy of f with field set from raw panel input. Malformed
// numbers and unknown energy classes clear the field rather than failing.
// ok is false only for unknown field names.
func (f FilterState) With(field Field, raw string) (FilterState, bool) {
	next := f.clone()
	raw = strings.TrimSpace(raw)

	switch field {
	case FieldMinPrice:
		next.MinPrice = parseBound(raw)
	case FieldMaxPrice:
		next.MaxPrice = parseBound(raw)
	case FieldRooms:
		next.Rooms = nil
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			next.Rooms = &n
		}
	case FieldEnergyClass:
		next.EnergyClass, _ = listing.ParseEnergyClass(raw)
	case FieldMunicipality:
		next.Municipality = raw
	case FieldTransactionType:
		next.TransactionType = ParseTransactionType(raw)
	default:
		return f, false
	}
	return next, true
}

// ToggleService adds or removes a selected service.
func (f FilterState) ToggleService(name string) FilterState {
	next := f.clone()
	name = strings.TrimSpace(name)
	if name == "" {
		return next
	}
	if i := slices.Index(next.Services, name); i >= 0 {
		next.Services = slices.Delete(next.Services, i, i+1)
		return next
	}
	next.Services = append(next.Services, name)
	slices.Sort(next.Services)
	return next
}

// Active reports whether any predicate would filter.
func (f FilterState) Active() bool {
	return f.MinPrice != nil || f.MaxPrice != nil || f.Rooms != nil ||
		f.EnergyClass != "" || f.Municipality != "" ||
		(f.TransactionType != TransactionAny && f.TransactionType != "") ||
		len(f.Services) > 0
}

func (f FilterState) clone() FilterState {
	next := f
	next.Services = slices.Clone(f.Services)
	if next.Services == nil {
		next.Services = []string{}
	}
	return next
}

// parseBound turns panel input into a price bound.
func parseBound(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Apply returns the items of original matching every active predicate of f.
// It never mutates original, always allocates a fresh slice and preserves order.
func Apply(original []listing.Property, f FilterState) []listing.Property {
	out := make([]listing.Property, 0, len(original))
	for _, p := range original {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f FilterState) match(p listing.Property) bool {
	if f.MinPrice != nil && (p.Price == nil || *p.Price < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (p.Price == nil || *p.Price > *f.MaxPrice) {
		return false
	}
	if f.Rooms != nil && (p.NumberOfRooms == nil || *p.NumberOfRooms != *f.Rooms) {
		return false
	}
	if f.EnergyClass != "" && !strings.EqualFold(string(p.EnergyClass), string(f.EnergyClass)) {
		return false
	}
	if f.Municipality != "" && !strings.EqualFold(p.MunicipalityName(), f.Municipality) {
		return false
	}
	if !f.TransactionType.matches(p.SaleType) {
		return false
	}
	for _, s := range f.Services {
		if !p.HasService(s) {
			return false
		}
	}
	return true
}
