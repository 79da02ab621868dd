package auth

import "slices"

// UnknownLabel is returned by LabelOf for capabilities without a label.
const UnknownLabel = "unknown"

// MenuItem is one entry of the profile menu.
type MenuItem struct {
	Capability Capability `json:"capability"`
	Label      string     `json:"label"`
}

// PermissionTable maps roles to ordered capabilities and capabilities to labels.
// The zero value is an empty table that allows nothing.
type PermissionTable struct {
	roles  map[Role][]Capability
	labels map[Capability]string
}

// NewPermissionTable builds a table from the given role and label mappings.
// Capability order per role is preserved as menu display order.
func NewPermissionTable(roles map[Role][]Capability, labels map[Capability]string) *PermissionTable {
	t := &PermissionTable{
		roles:  make(map[Role][]Capability, len(roles)),
		labels: make(map[Capability]string, len(labels)),
	}
	for r, caps := range roles {
		t.roles[r] = slices.Clone(caps)
	}
	for c, l := range labels {
		t.labels[c] = l
	}
	return t
}

var defaultTable = NewPermissionTable(
	map[Role][]Capability{
		RoleUser: {CapViewDetails, CapChangePassword, CapLogout},
		RoleAgent: {
			CapViewDetails, CapAddProperty, CapViewDashboard,
			CapBookingsView, CapOffersView, CapChangePassword, CapLogout,
		},
		RoleManager: {CapViewDetails, CapCreateAgent, CapChangePassword, CapLogout},
		RoleAdmin:   {CapViewDetails, CapChangePassword, CapCreateManager, CapCreateAgent, CapLogout},
	},
	map[Capability]string{
		CapViewDetails:    "Personal Details",
		CapAddProperty:    "Add Property",
		CapViewDashboard:  "Dashboard",
		CapBookingsView:   "Bookings View",
		CapOffersView:     "Offers View",
		CapCreateAgent:    "Create Agent",
		CapCreateManager:  "Create Manager",
		CapChangePassword: "Change Password",
		CapLogout:         "Log Out",
	},
)

// DefaultPermissions returns the marketplace permission table.
func DefaultPermissions() *PermissionTable {
	return defaultTable
}

// Known reports whether role has an entry in the table.
func (t *PermissionTable) Known(role Role) bool {
	if t == nil {
		return false
	}
	_, ok := t.roles[role]
	return ok
}

// CapabilitiesFor returns the capabilities of role in menu order.
// Unknown roles yield an empty, non-nil slice.
func (t *PermissionTable) CapabilitiesFor(role Role) []Capability {
	if t == nil {
		return []Capability{}
	}
	caps, ok := t.roles[role]
	if !ok {
		return []Capability{}
	}
	return slices.Clone(caps)
}

// LabelOf returns the display label of c, or UnknownLabel.
func (t *PermissionTable) LabelOf(c Capability) string {
	if t == nil {
		return UnknownLabel
	}
	if l, ok := t.labels[c]; ok {
		return l
	}
	return UnknownLabel
}

// Allows reports whether role holds capability c.
func (t *PermissionTable) Allows(role Role, c Capability) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.roles[role], c)
}

// Menu returns the labelled menu for role. Capabilities without a label are
// dropped rather than rendered as "unknown".
func (t *PermissionTable) Menu(role Role) []MenuItem {
	caps := t.CapabilitiesFor(role)
	items := make([]MenuItem, 0, len(caps))
	for _, c := range caps {
		label := t.LabelOf(c)
		if label == UnknownLabel {
			continue
		}
		items = append(items, MenuItem{Capability: c, Label: label})
	}
	return items
}

// RolesWith returns every known role holding c, in Roles order.
func (t *PermissionTable) RolesWith(c Capability) []Role {
	var out []Role
	for _, r := range Roles {
		if t.Allows(r, c) {
			out = append(out, r)
		}
	}
	return out
}
