// Package profile maps the active profile menu capability to the panel to render.
package profile

import "github.com/dietiestates/estates-web/internal/domain/auth"

// View identifies a management panel.
type View string

const (
	ViewPersonalDetails View = "personal-details"
	ViewAddProperty     View = "add-property"
	ViewAgentDashboard  View = "agent-dashboard"
	ViewBookings        View = "bookings"
	ViewOffers          View = "offers"
	ViewCreateUser      View = "create-user"
	ViewChangePassword  View = "change-password"
)

// ViewDescriptor tells the client which panel to render and with what parameters.
type ViewDescriptor struct {
	View       View            `json:"view"`
	Title      string          `json:"title"`
	Capability auth.Capability `json:"capability"`
	// CreateRole is set for the create-user panel.
	CreateRole auth.Role `json:"createRole,omitempty"`
}

var views = map[auth.Capability]ViewDescriptor{
	auth.CapViewDetails:    {View: ViewPersonalDetails, Title: "Personal Details", Capability: auth.CapViewDetails},
	auth.CapAddProperty:    {View: ViewAddProperty, Title: "Add Property", Capability: auth.CapAddProperty},
	auth.CapViewDashboard:  {View: ViewAgentDashboard, Title: "Dashboard", Capability: auth.CapViewDashboard},
	auth.CapBookingsView:   {View: ViewBookings, Title: "Bookings", Capability: auth.CapBookingsView},
	auth.CapOffersView:     {View: ViewOffers, Title: "Offers", Capability: auth.CapOffersView},
	auth.CapCreateAgent:    {View: ViewCreateUser, Title: "Create Agent", Capability: auth.CapCreateAgent, CreateRole: auth.RoleAgent},
	auth.CapCreateManager:  {View: ViewCreateUser, Title: "Create Manager", Capability: auth.CapCreateManager, CreateRole: auth.RoleManager},
	auth.CapChangePassword: {View: ViewChangePassword, Title: "Change Password", Capability: auth.CapChangePassword},
}

// Default is the panel shown when nothing else applies.
func Default() ViewDescriptor { return views[auth.CapViewDetails] }

// ViewFor returns the panel for the active capability, falling back to the
// personal details panel for capabilities with no registered view.
func ViewFor(active auth.Capability) ViewDescriptor {
	if v, ok := views[active]; ok {
		return v
	}
	return Default()
}

// HasView reports whether c renders a panel of its own.
func HasView(c auth.Capability) bool {
	_, ok := views[c]
	return ok
}
