// Package auth contains domain-level types for identities, roles and
// capabilities. It is pure and free of framework/adapter concerns.
package auth

import (
	"strings"
	"time"
)

// Role represents a marketplace authorization role.
// Keep string form for easy persistence and JSON.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAgent   Role = "AGENT"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every known role in ascending order of privilege.
var Roles = []Role{RoleUser, RoleAgent, RoleManager, RoleAdmin}

// ParseRole normalises a role string ("agent", "Agent", "ROLE_AGENT").
// Unrecognised values are returned upper-cased so they stay visible in logs
// while never matching an entry of the permission table.
func ParseRole(s string) Role {
	r := strings.ToUpper(strings.TrimSpace(s))
	r = strings.TrimPrefix(r, "ROLE_")
	return Role(r)
}

// Capability is an opaque permission key controlling menu and route visibility.
type Capability string

const (
	CapViewDetails    Capability = "viewDetails"
	CapAddProperty    Capability = "addProperty"
	CapViewDashboard  Capability = "viewDashboard"
	CapBookingsView   Capability = "bookingsView"
	CapOffersView     Capability = "offersView"
	CapCreateAgent    Capability = "createAgent"
	CapCreateManager  Capability = "createManager"
	CapChangePassword Capability = "changePassword"
	CapLogout         Capability = "logout"
)

// Identity is the decoded, authenticated user record derived from an access token.
type Identity struct {
	SubjectID   string    `json:"subjectId"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	TokenExpiry time.Time `json:"tokenExpiry"`
}

// Expired reports whether the identity's token expiry lies at or before now.
// A zero expiry never expires.
func (i Identity) Expired(now time.Time) bool {
	return !i.TokenExpiry.IsZero() && !now.Before(i.TokenExpiry)
}

// DisplayName returns the username, falling back to the email.
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}

// ProviderProfile is what a federated identity provider tells us about a user.
// It is forwarded to the backend, which issues the marketplace access token.
type ProviderProfile struct {
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	IDToken  string `json:"idToken,omitempty"`
}

// Credentials are the email/password pair used for password login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the data submitted by the sign-up form.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegistrationResult is the backend's answer to a successful registration.
type RegistrationResult struct {
	Status string `json:"status"`
}
