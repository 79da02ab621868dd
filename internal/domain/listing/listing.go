// Package listing holds the property, offer and visit shapes consumed from the
// marketplace backend. Values are read-only once received.
package listing

import (
	"strings"
	"time"
)

// SaleType distinguishes listings for sale from listings for rent.
type SaleType string

const (
	SaleTypeSale SaleType = "Sale"
	SaleTypeRent SaleType = "Rent"
)

// ParseSaleType accepts "Sale", "sale", "buy", "Rent" and "rent".
func ParseSaleType(s string) (SaleType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "buy":
		return SaleTypeSale, true
	case "rent":
		return SaleTypeRent, true
	default:
		return "", false
	}
}

// EnergyClass is the A..G energy performance rating.
type EnergyClass string

// EnergyClasses lists valid energy classes, best first.
var EnergyClasses = []EnergyClass{"A", "B", "C", "D", "E", "F", "G"}

// ParseEnergyClass upper-cases s and reports whether it is a valid class.
func ParseEnergyClass(s string) (EnergyClass, bool) {
	c := EnergyClass(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range EnergyClasses {
		if v == c {
			return c, true
		}
	}
	return "", false
}

// Municipality is the town a property belongs to.
type Municipality struct {
	Name    string `json:"name"`
	ZipCode string `json:"zipCode"`
}

// Address locates a property. Coordinates are nil when unknown.
type Address struct {
	Street       string        `json:"street"`
	HouseNumber  string        `json:"houseNumber"`
	Latitude     *float64      `json:"latitude"`
	Longitude    *float64      `json:"longitude"`
	Municipality *Municipality `json:"municipality"`
}

// Service is an amenity attached to a listing.
type Service struct {
	ServiceName string `json:"serviceName"`
}

// Property is a listing as returned by the backend. Optional numeric
// fields are pointers so missing values stay distinguishable from zero.
type Property struct {
	ID            int64       `json:"id"`
	Price         *float64    `json:"price"`
	NumberOfRooms *int        `json:"numberOfRooms"`
	SquareMeters  *float64    `json:"squareMeters"`
	EnergyClass   EnergyClass `json:"energyClass"`
	SaleType      SaleType    `json:"saleType"`
	Description   string      `json:"description,omitempty"`
	Address       *Address    `json:"address"`
	Services      []Service   `json:"services"`
	ImageURLs     []string    `json:"imageUrls"`
}

// HasService reports whether the listing offers the named service.
// Names compare case-insensitively.
func (p Property) HasService(name string) bool {
	for _, s := range p.Services {
		if strings.EqualFold(s.ServiceName, name) {
			return true
		}
	}
	return false
}

// MunicipalityName returns the municipality name or "".
func (p Property) MunicipalityName() string {
	if p.Address == nil || p.Address.Municipality == nil {
		return ""
	}
	return p.Address.Municipality.Name
}

// ResultPage is one page of search results. Pagination fields come only
// from the server.
type ResultPage struct {
	Items         []Property `json:"items"`
	TotalPages    int        `json:"totalPages"`
	TotalElements int        `json:"totalElements"`
	CurrentPage   int        `json:"currentPage"`
}

// ReviewStatus is the lifecycle state of an offer or a visit request.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "Pending"
	StatusAccepted ReviewStatus = "Accepted"
	StatusRejected ReviewStatus = "Rejected"
)

// ReviewStatuses lists statuses in board display order.
var ReviewStatuses = []ReviewStatus{StatusPending, StatusAccepted, StatusRejected}

// ParseReviewStatus accepts any casing; "" and "all" mean no status.
func ParseReviewStatus(s string) (ReviewStatus, bool) {
	for _, st := range ReviewStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// Offer is a purchase offer made on a listing.
type Offer struct {
	ID              int64        `json:"id"`
	PropertyID      int64        `json:"propertyId"`
	PropertyAddress string       `json:"propertyAddress,omitempty"`
	BuyerEmail      string       `json:"buyerEmail"`
	OfferPrice      float64      `json:"offerPrice"`
	Status          ReviewStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Visit is a visit request for a listing.
type Visit struct {
	ID              int64        `json:"id"`
	PropertyID      int64        `json:"propertyId"`
	PropertyAddress string       `json:"propertyAddress,omitempty"`
	UserEmail       string       `json:"userEmail"`
	VisitDate       time.Time    `json:"visitDate"`
	Status          ReviewStatus `json:"status"`
}

// AgentStats are the headline numbers of the agent dashboard.
type AgentStats struct {
	Views          int `json:"views"`
	Visits         int `json:"visits"`
	Offers         int `json:"offers"`
	ActiveListings int `json:"activeListings"`
}
