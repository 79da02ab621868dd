package service

import (
	"strings"
	"time"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/ports"
)

// MaxPropertyImages caps the gallery of a new listing.
const MaxPropertyImages = 7

// ValidateOffer checks an offer amount against the listing price.
// A listing without a price only needs a positive amount.
func ValidateOffer(amount float64, listPrice *float64) error {
	if !(amount > 0) {
		return apperrors.ValidationField("offerPrice", "Please enter a valid amount.")
	}
	if listPrice != nil && amount >= *listPrice {
		return apperrors.ValidationField("offerPrice", "The offer must be lower than the current price.")
	}
	return nil
}

// ValidateVisit checks a requested visit date. Booked dates are compared by calendar day.
func ValidateVisit(at, now time.Time, booked []time.Time) error {
	if at.IsZero() {
		return apperrors.ValidationField("visitDate", "Please select a date.")
	}
	if at.Before(now) {
		return apperrors.ValidationField("visitDate", "The visit date cannot be in the past.")
	}
	y, m, d := at.Date()
	for _, b := range booked {
		by, bm, bd := b.In(at.Location()).Date()
		if by == y && bm == m && bd == d {
			return apperrors.ValidationField("visitDate", "This date is already booked.")
		}
	}
	return nil
}

// PasswordForm is the change-password form.
type PasswordForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidatePasswordChange applies the change-password rules. Accounts created
// through a federated provider have no password yet and skip the current one.
func ValidatePasswordChange(f PasswordForm, hasPassword bool) error {
	fields := map[string]string{}
	if hasPassword && f.CurrentPassword == "" {
		fields["currentPassword"] = "Please fill in all required fields."
	}
	switch {
	case f.NewPassword == "":
		fields["newPassword"] = "Please fill in all required fields."
	case len(f.NewPassword) < MinPasswordLength:
		fields["newPassword"] = "New password must be at least 8 characters long."
	case f.ConfirmPassword != f.NewPassword:
		fields["confirmPassword"] = "New passwords do not match."
	}
	return apperrors.ValidationFields(fields)
}

// UserForm is the create-agent / create-manager form.
type UserForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreatableRole maps the create capabilities to the role they create.
func CreatableRole(c domainauth.Capability) (domainauth.Role, bool) {
	switch c {
	case domainauth.CapCreateAgent:
		return domainauth.RoleAgent, true
	case domainauth.CapCreateManager:
		return domainauth.RoleManager, true
	default:
		return "", false
	}
}

// BuildNewUser validates f and returns the backend payload.
func BuildNewUser(f UserForm, role domainauth.Role, creator string) (ports.NewUser, error) {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	fields := map[string]string{}
	if f.Username == "" {
		fields["username"] = "All fields are required."
	}
	switch {
	case f.Email == "":
		fields["email"] = "All fields are required."
	case !emailShape.MatchString(f.Email):
		fields["email"] = "Please enter a valid email address."
	}
	switch {
	case f.Password == "":
		fields["password"] = "All fields are required."
	case len(f.Password) < MinPasswordLength:
		fields["password"] = "Password must be at least 8 characters long."
	}
	if role != domainauth.RoleAgent && role != domainauth.RoleManager {
		fields["roleName"] = "Only agents and managers can be created."
	}
	if err := apperrors.ValidationFields(fields); err != nil {
		return ports.NewUser{}, err
	}
	return ports.NewUser{
		Username:     f.Username,
		Email:        f.Email,
		UserPassword: f.Password,
		RoleName:     string(role),
		EmailCreator: creator,
	}, nil
}

// PropertyForm is the add-property form.
type PropertyForm struct {
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	NumberOfRooms int              `json:"numberOfRooms"`
	SquareMeters  float64          `json:"squareMeters"`
	EnergyClass   string           `json:"energyClass"`
	SaleType      string           `json:"saleType"`
	Address       *listing.Address `json:"address"`
	Services      []string         `json:"services"`
	ImageURLs     []string         `json:"imageUrls"`
}

// BuildNewProperty validates f and returns the backend payload.
func BuildNewProperty(f PropertyForm, agentEmail string) (ports.NewProperty, error) {
	fields := map[string]string{}
	if f.Address == nil || strings.TrimSpace(f.Address.Street) == "" || f.Address.Latitude == nil || f.Address.Longitude == nil {
		fields["address"] = "Please select a valid address from the suggestions."
	}
	if strings.TrimSpace(f.Description) == "" {
		fields["description"] = "Please fill in all required fields."
	}
	if !(f.Price > 0) {
		fields["price"] = "Price must be greater than zero."
	}
	if f.NumberOfRooms < 0 {
		fields["numberOfRooms"] = "Rooms cannot be negative."
	}
	if !(f.SquareMeters > 0) {
		fields["squareMeters"] = "Please fill in all required fields."
	}
	energy, ok := listing.ParseEnergyClass(f.EnergyClass)
	if !ok {
		fields["energyClass"] = "Energy class must be between A and G."
	}
	saleType, ok := listing.ParseSaleType(f.SaleType)
	if !ok {
		fields["saleType"] = "Sale type must be Sale or Rent."
	}
	if len(f.ImageURLs) > MaxPropertyImages {
		fields["imageUrls"] = "You can upload at most 7 images."
	}

	services := make([]listing.Service, 0, len(f.Services))
	for _, name := range f.Services {
		entry, ok := listing.LookupService(name)
		if !ok {
			fields["services"] = "Unknown service: " + name
			break
		}
		services = append(services, listing.Service{ServiceName: entry.Name})
	}

	if err := apperrors.ValidationFields(fields); err != nil {
		return ports.NewProperty{}, err
	}
	return ports.NewProperty{
		Description:   strings.TrimSpace(f.Description),
		Price:         f.Price,
		NumberOfRooms: f.NumberOfRooms,
		SquareMeters:  f.SquareMeters,
		EnergyClass:   energy,
		SaleType:      saleType,
		Address:       *f.Address,
		Services:      services,
		ImageURLs:     append([]string{}, f.ImageURLs...),
		AgentEmail:    agentEmail,
	}, nil
}
