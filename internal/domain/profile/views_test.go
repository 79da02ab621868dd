package profile

import (
	"testing"

	"github.com/dietiestates/estates-web/internal/domain/auth"
)

func TestViewFor(t *testing.T) {
	tests := []struct {
		active auth.Capability
		view   View
		role   auth.Role
	}{
		{auth.CapViewDetails, ViewPersonalDetails, ""},
		{auth.CapAddProperty, ViewAddProperty, ""},
		{auth.CapViewDashboard, ViewAgentDashboard, ""},
		{auth.CapBookingsView, ViewBookings, ""},
		{auth.CapOffersView, ViewOffers, ""},
		{auth.CapCreateAgent, ViewCreateUser, auth.RoleAgent},
		{auth.CapCreateManager, ViewCreateUser, auth.RoleManager},
		{auth.CapChangePassword, ViewChangePassword, ""},
		{auth.CapLogout, ViewPersonalDetails, ""},
		{"", ViewPersonalDetails, ""},
		{"somethingElse", ViewPersonalDetails, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.active), func(t *testing.T) {
			got := ViewFor(tt.active)
			if got.View != tt.view {
				t.Errorf("ViewFor(%q).View = %q, want %q", tt.active, got.View, tt.view)
			}
			if got.CreateRole != tt.role {
				t.Errorf("ViewFor(%q).CreateRole = %q, want %q", tt.active, got.CreateRole, tt.role)
			}
		})
	}
}

func TestHasView(t *testing.T) {
	if HasView(auth.CapLogout) {
		t.Errorf("logout is an action, not a panel")
	}
	for _, r := range auth.Roles {
		for _, c := range auth.DefaultPermissions().CapabilitiesFor(r) {
			if c != auth.CapLogout && !HasView(c) {
				t.Errorf("capability %q of %s has no panel", c, r)
			}
		}
	}
}
