package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/ports"
)

// MarketplaceOptions groups dependencies for Marketplace.
type MarketplaceOptions struct {
	Catalog     ports.PropertyCatalog
	Visits      ports.VisitClient
	Offers      ports.OfferClient
	Users       ports.UserClient
	Permissions *domainauth.PermissionTable
	Logger      *slog.Logger
	Now         func() time.Time
}

// Marketplace runs the one-shot actions of the client (detail page, offers,
// visits, management forms) on behalf of a Session. Forms are validated
// before anything is sent.
type Marketplace struct {
	catalog     ports.PropertyCatalog
	visits      ports.VisitClient
	offers      ports.OfferClient
	users       ports.UserClient
	permissions *domainauth.PermissionTable
	logger      *slog.Logger
	now         func() time.Time
}

// NewMarketplace constructs a Marketplace.
func NewMarketplace(opts MarketplaceOptions) *Marketplace {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	perms := opts.Permissions
	if perms == nil {
		perms = domainauth.DefaultPermissions()
	}
	return &Marketplace{
		catalog:     opts.Catalog,
		visits:      opts.Visits,
		offers:      opts.Offers,
		users:       opts.Users,
		permissions: perms,
		logger:      logger.With("component", "marketplace"),
		now:         now,
	}
}

// Users exposes the user client for the dashboard loader.
func (m *Marketplace) Users() ports.UserClient { return m.users }

// Property fetches one listing. Anonymous reads are allowed.
func (m *Marketplace) Property(ctx context.Context, s *Session, id int64) (listing.Property, error) {
	token, _, _ := s.Credentials()
	return m.catalog.Get(ctx, token, id)
}

// BookedDates lists the days already taken for visits of a listing.
func (m *Marketplace) BookedDates(ctx context.Context, s *Session, propertyID int64) ([]time.Time, error) {
	token, _, _ := s.Credentials()
	return m.visits.BookedDates(ctx, token, propertyID)
}

// BookVisit requests a visit on day at.
func (m *Marketplace) BookVisit(ctx context.Context, s *Session, propertyID int64, at time.Time) error {
	token, _, ok := s.Credentials()
	if !ok {
		return apperrors.Authentication("login required")
	}
	if err := ValidateVisit(at, m.now(), nil); err != nil {
		return err
	}
	booked, err := m.visits.BookedDates(ctx, token, propertyID)
	if err != nil {
		return fmt.Errorf("booked dates: %w", err)
	}
	if err := ValidateVisit(at, m.now(), booked); err != nil {
		return err
	}
	return m.visits.Book(ctx, token, propertyID, at)
}

// MakeOffer submits a purchase offer, which must be below the listing price.
func (m *Marketplace) MakeOffer(ctx context.Context, s *Session, propertyID int64, amount float64) error {
	token, _, ok := s.Credentials()
	if !ok {
		return apperrors.Authentication("login required")
	}
	if err := ValidateOffer(amount, nil); err != nil {
		return err
	}
	p, err := m.catalog.Get(ctx, token, propertyID)
	if err != nil {
		return err
	}
	if err := ValidateOffer(amount, p.Price); err != nil {
		return err
	}
	return m.offers.Make(ctx, token, propertyID, amount)
}

// AddProperty publishes a new listing for the logged-in agent.
func (m *Marketplace) AddProperty(ctx context.Context, s *Session, f PropertyForm) (listing.Property, error) {
	id, token, err := m.authorize(s, domainauth.CapAddProperty)
	if err != nil {
		return listing.Property{}, err
	}
	payload, err := BuildNewProperty(f, id.Email)
	if err != nil {
		return listing.Property{}, err
	}
	created, err := m.catalog.Create(ctx, token, payload)
	if err != nil {
		return listing.Property{}, err
	}
	m.logger.Info("property created", "id", created.ID, "agent", id.Email)
	return created, nil
}

// CreateUser creates an agent or a manager, depending on capability.
func (m *Marketplace) CreateUser(ctx context.Context, s *Session, c domainauth.Capability, f UserForm) (ports.NewUser, error) {
	role, ok := CreatableRole(c)
	if !ok {
		return ports.NewUser{}, apperrors.ValidationField("roleName", "Only agents and managers can be created.")
	}
	id, token, err := m.authorize(s, c)
	if err != nil {
		return ports.NewUser{}, err
	}
	payload, err := BuildNewUser(f, role, id.Email)
	if err != nil {
		return ports.NewUser{}, err
	}
	if err := m.users.Create(ctx, token, payload); err != nil {
		return ports.NewUser{}, err
	}
	m.logger.Info("user created", "role", role, "creator", id.Email)
	payload.UserPassword = ""
	return payload, nil
}

// PasswordStatus reports whether the account already has a password.
func (m *Marketplace) PasswordStatus(ctx context.Context, s *Session) (bool, error) {
	id, token, err := m.authorize(s, domainauth.CapChangePassword)
	if err != nil {
		return false, err
	}
	return m.users.HasPassword(ctx, token, id.Email)
}

// ChangePassword sets or replaces the account password.
func (m *Marketplace) ChangePassword(ctx context.Context, s *Session, f PasswordForm) error {
	id, token, err := m.authorize(s, domainauth.CapChangePassword)
	if err != nil {
		return err
	}
	if err := ValidatePasswordChange(f, false); err != nil {
		return err
	}
	hasPassword, err := m.users.HasPassword(ctx, token, id.Email)
	if err != nil {
		return fmt.Errorf("password status: %w", err)
	}
	if err := ValidatePasswordChange(f, hasPassword); err != nil {
		return err
	}
	change := ports.PasswordChange{Email: id.Email, NewPassword: f.NewPassword}
	if hasPassword {
		change.CurrentPassword = f.CurrentPassword
	}
	return m.users.ChangePassword(ctx, token, change)
}

func (m *Marketplace) authorize(s *Session, c domainauth.Capability) (domainauth.Identity, string, error) {
	id, ok := s.Current()
	if !ok {
		return domainauth.Identity{}, "", apperrors.Authentication("login required")
	}
	if !m.permissions.Allows(id.Role, c) {
		return domainauth.Identity{}, "", apperrors.Authorization("not allowed for this role")
	}
	token, _, ok := s.Credentials()
	if !ok {
		return domainauth.Identity{}, "", apperrors.Authentication("login required")
	}
	return id, token, nil
}
