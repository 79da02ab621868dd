package ports

import (
	"context"
	"time"

	"github.com/dietiestates/estates-web/internal/domain/listing"
)

// SearchQuery is the server-side part of a search: where and which page.
type SearchQuery struct {
	Location string
	Page     int
	Size     int
}

// PropertySearcher fetches pages of listings for a location.
type PropertySearcher interface {
	Search(ctx context.Context, q SearchQuery) (listing.ResultPage, error)
}

// NewProperty is the payload of the add-property form.
type NewProperty struct {
	Description   string              `json:"description"`
	Price         float64             `json:"price"`
	NumberOfRooms int                 `json:"numberOfRooms"`
	SquareMeters  float64             `json:"squareMeters"`
	EnergyClass   listing.EnergyClass `json:"energyClass"`
	SaleType      listing.SaleType    `json:"saleType"`
	Address       listing.Address     `json:"address"`
	Services      []listing.Service   `json:"services"`
	ImageURLs     []string            `json:"imageUrls"`
	AgentEmail    string              `json:"agentEmail"`
}

// PropertyCatalog reads and creates listings. token may be empty for public reads.
type PropertyCatalog interface {
	PropertySearcher
	Get(ctx context.Context, token string, id int64) (listing.Property, error)
	Create(ctx context.Context, token string, p NewProperty) (listing.Property, error)
}

// VisitClient manages visit requests.
type VisitClient interface {
	Book(ctx context.Context, token string, propertyID int64, at time.Time) error
	BookedDates(ctx context.Context, token string, propertyID int64) ([]time.Time, error)
	ListForAgent(ctx context.Context, token string) ([]listing.Visit, error)
	SetStatus(ctx context.Context, token string, id int64, status listing.ReviewStatus) error
	Delete(ctx context.Context, token string, id int64) error
}

// OfferClient manages purchase offers.
type OfferClient interface {
	Make(ctx context.Context, token string, propertyID int64, price float64) error
	ListForAgent(ctx context.Context, token string) ([]listing.Offer, error)
	SetStatus(ctx context.Context, token string, id int64, status listing.ReviewStatus) error
	Delete(ctx context.Context, token string, id int64) error
}

// NewUser is the payload of the create-agent and create-manager forms.
type NewUser struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	UserPassword string `json:"userPassword"`
	RoleName     string `json:"roleName"`
	EmailCreator string `json:"emailCreator"`
}

// PasswordChange is the payload of the change-password form.
type PasswordChange struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword"`
}

// UserClient covers account and user-management endpoints.
type UserClient interface {
	Create(ctx context.Context, token string, u NewUser) error
	HasPassword(ctx context.Context, token, email string) (bool, error)
	ChangePassword(ctx context.Context, token string, c PasswordChange) error
	AgentStats(ctx context.Context, token string) (listing.AgentStats, error)
}
