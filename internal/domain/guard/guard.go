// Package guard decides whether an identity may reach a client destination.
package guard

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/dietiestates/estates-web/internal/domain/auth"
)

const (
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath = "/login"
	// HomePath is where authenticated visitors without access are sent.
	HomePath = "/"
)

// Destination is a client view and the roles allowed to reach it. Only
// public destinations skip the identity check; a protected destination
// with no allowed roles admits nobody.
type Destination struct {
	Path         string
	AllowedRoles []auth.Role
	Public       bool
}

// Kind is the outcome of a guard decision.
type Kind string

const (
	Allow      Kind = "allow"
	RedirectTo Kind = "redirect"
)

// Decision is the result of CanEnter.
type Decision struct {
	Kind   Kind   `json:"kind"`
	Target string `json:"target,omitempty"`
	// From carries the original destination on login redirects.
	From string `json:"from,omitempty"`
}

// Allowed reports whether the decision lets the navigation through.
func (d Decision) Allowed() bool { return d.Kind == Allow }

// Guard evaluates destinations against a permission table.
type Guard struct {
	table *auth.PermissionTable
}

// New creates a Guard. A nil table falls back to the default permissions.
func New(table *auth.PermissionTable) *Guard {
	if table == nil {
		table = auth.DefaultPermissions()
	}
	return &Guard{table: table}
}

// CanEnter decides whether identity may reach dest. identity is nil when
// nobody is logged in. Roles missing from the permission table are
// treated as unauthorized even when listed by the destination.
func (g *Guard) CanEnter(dest Destination, identity *auth.Identity) Decision {
	if dest.Public {
		return Decision{Kind: Allow}
	}
	if identity == nil {
		return Decision{Kind: RedirectTo, Target: loginTarget(dest.Path), From: dest.Path}
	}
	if !g.table.Known(identity.Role) || !slices.Contains(dest.AllowedRoles, identity.Role) {
		return Decision{Kind: RedirectTo, Target: HomePath}
	}
	return Decision{Kind: Allow}
}

func loginTarget(from string) string {
	if from == "" {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// ForCapability builds a destination reachable by every role holding c.
// When no role holds c the destination is closed to everyone.
func (g *Guard) ForCapability(path string, c auth.Capability) Destination {
	return Destination{Path: path, AllowedRoles: g.table.RolesWith(c)}
}

// ProfilePath is the root of the protected profile area.
const ProfilePath = "/profile"

// Routes is the client's table of destinations.
type Routes struct {
	byPath map[string]Destination
}

// DefaultRoutes returns the destinations of the marketplace client.
func (g *Guard) DefaultRoutes() *Routes {
	r := &Routes{byPath: map[string]Destination{}}
	for _, p := range []string{HomePath, "/properties", LoginPath} {
		r.add(Destination{Path: p, Public: true})
	}
	r.add(Destination{Path: ProfilePath, AllowedRoles: slices.Clone(auth.Roles)})
	for p, c := range map[string]auth.Capability{
		"/profile/add-property":   auth.CapAddProperty,
		"/profile/dashboard":      auth.CapViewDashboard,
		"/profile/bookings":       auth.CapBookingsView,
		"/profile/offers":         auth.CapOffersView,
		"/profile/create-agent":   auth.CapCreateAgent,
		"/profile/create-manager": auth.CapCreateManager,
		"/profile/password":       auth.CapChangePassword,
	} {
		r.add(g.ForCapability(p, c))
	}
	return r
}

func (r *Routes) add(d Destination) { r.byPath[d.Path] = d }

// Lookup returns the destination for a requested path. The path is cleaned
// and compared case-insensitively. Anything under /profile resolves to its
// longest registered prefix, so unknown or nested profile paths inherit the
// protection of their parent. Paths outside the profile area are public.
func (r *Routes) Lookup(p string) Destination {
	clean := cleanPath(p)
	key := strings.ToLower(clean)
	if !underProfile(key) {
		if d, ok := r.byPath[key]; ok {
			return d
		}
		return Destination{Path: clean, Public: true}
	}
	for prefix := key; ; prefix = path.Dir(prefix) {
		if d, ok := r.byPath[prefix]; ok {
			d.Path = clean
			return d
		}
		if prefix == ProfilePath {
			return Destination{Path: clean}
		}
	}
}

func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func underProfile(p string) bool {
	return p == ProfilePath || strings.HasPrefix(p, ProfilePath+"/")
}
