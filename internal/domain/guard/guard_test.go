package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dietiestates/estates-web/internal/domain/auth"
)

func identity(role auth.Role) *auth.Identity {
	return &auth.Identity{SubjectID: "1", Email: "a@b.it", Role: role}
}

func TestCanEnter(t *testing.T) {
	g := New(nil)
	profile := Destination{Path: "/profile", AllowedRoles: auth.Roles}
	offers := g.ForCapability("/profile/offers", auth.CapOffersView)

	tests := []struct {
		name     string
		dest     Destination
		identity *auth.Identity
		want     Decision
	}{
		{
			name: "public destination needs nobody",
			dest: Destination{Path: "/properties", Public: true},
			want: Decision{Kind: Allow},
		},
		{
			name: "anonymous goes to login with from",
			dest: profile,
			want: Decision{Kind: RedirectTo, Target: "/login?from=%2Fprofile", From: "/profile"},
		},
		{
			name:     "any known role may open the profile",
			dest:     profile,
			identity: identity(auth.RoleUser),
			want:     Decision{Kind: Allow},
		},
		{
			name:     "agent may open offers",
			dest:     offers,
			identity: identity(auth.RoleAgent),
			want:     Decision{Kind: Allow},
		},
		{
			name:     "user without role goes home",
			dest:     offers,
			identity: identity(auth.RoleUser),
			want:     Decision{Kind: RedirectTo, Target: HomePath},
		},
		{
			name: "protected destination without roles turns anonymous away",
			dest: Destination{Path: "/profile/x"},
			want: Decision{Kind: RedirectTo, Target: "/login?from=%2Fprofile%2Fx", From: "/profile/x"},
		},
		{
			name:     "protected destination without roles admits no role",
			dest:     Destination{Path: "/profile/x"},
			identity: identity(auth.RoleAdmin),
			want:     Decision{Kind: RedirectTo, Target: HomePath},
		},
		{
			name:     "role missing from the table is unauthorized",
			dest:     Destination{Path: "/profile", AllowedRoles: []auth.Role{"SUPERUSER"}},
			identity: identity("SUPERUSER"),
			want:     Decision{Kind: RedirectTo, Target: HomePath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.CanEnter(tt.dest, tt.identity))
		})
	}
}

// Allow iff identity present and role in the allowed set, for every pairing.
func TestCanEnter_Exhaustive(t *testing.T) {
	g := New(nil)
	sets := [][]auth.Role{
		{auth.RoleUser},
		{auth.RoleAgent, auth.RoleAdmin},
		{auth.RoleManager},
		auth.Roles,
	}
	for _, set := range sets {
		dest := Destination{Path: "/profile/x", AllowedRoles: set}

		assert.Equal(t, LoginPath+"?from=%2Fprofile%2Fx", g.CanEnter(dest, nil).Target)

		for _, r := range auth.Roles {
			d := g.CanEnter(dest, identity(r))
			allowed := false
			for _, s := range set {
				allowed = allowed || s == r
			}
			assert.Equal(t, allowed, d.Allowed(), "role %s set %v", r, set)
			if !allowed {
				assert.Equal(t, HomePath, d.Target)
			}
		}
	}
}

func TestDefaultRoutes(t *testing.T) {
	g := New(nil)
	routes := g.DefaultRoutes()

	assert.Equal(t, auth.Roles, routes.Lookup("/profile").AllowedRoles)
	assert.Equal(t, auth.Roles, routes.Lookup("/profile/").AllowedRoles)
	assert.Equal(t, []auth.Role{auth.RoleAgent}, routes.Lookup("/profile/dashboard").AllowedRoles)
	assert.Equal(t, []auth.Role{auth.RoleAdmin}, routes.Lookup("/profile/create-manager").AllowedRoles)
	assert.True(t, routes.Lookup("/properties/12").Public)
	assert.Equal(t, "/", routes.Lookup("").Path)

	// Identity changes between attempts are picked up because nothing is cached.
	dest := routes.Lookup("/profile/create-agent")
	assert.False(t, g.CanEnter(dest, identity(auth.RoleUser)).Allowed())
	assert.True(t, g.CanEnter(dest, identity(auth.RoleManager)).Allowed())
	assert.False(t, g.CanEnter(dest, nil).Allowed())
}

func TestLookup_ProfileSubpaths(t *testing.T) {
	g := New(nil)
	routes := g.DefaultRoutes()

	tests := []struct {
		path  string
		roles []auth.Role
	}{
		{"/profile/unknown", auth.Roles},
		{"/profile//offers", []auth.Role{auth.RoleAgent}},
		{"/Profile/Offers", []auth.Role{auth.RoleAgent}},
		{"/profile/offers/extra", []auth.Role{auth.RoleAgent}},
		{"/profile/./dashboard/", []auth.Role{auth.RoleAgent}},
		{"/profile/../profile/create-manager", []auth.Role{auth.RoleAdmin}},
		{"profile", auth.Roles},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dest := routes.Lookup(tt.path)
			assert.False(t, dest.Public)
			assert.ElementsMatch(t, tt.roles, dest.AllowedRoles)

			d := g.CanEnter(dest, nil)
			assert.Equal(t, RedirectTo, d.Kind)
			assert.Contains(t, d.Target, LoginPath+"?from=")
		})
	}

	assert.Equal(t, "/profile/offers/extra", routes.Lookup("/profile//offers/extra/").Path)
	assert.False(t, g.CanEnter(routes.Lookup("/profile/offers/extra"), identity(auth.RoleUser)).Allowed())
	assert.True(t, g.CanEnter(routes.Lookup("/profile/offers/extra"), identity(auth.RoleAgent)).Allowed())
}

func TestLookup_PublicPaths(t *testing.T) {
	routes := New(nil).DefaultRoutes()
	for _, p := range []string{"/", "/properties", "/properties/42", "/login", "/profiles", "/search"} {
		assert.True(t, routes.Lookup(p).Public, p)
	}
	// Escaping the profile area through dot segments leaves it.
	assert.True(t, routes.Lookup("/profile/../properties").Public)
}

func TestForCapability_NoRoleHoldsCapability(t *testing.T) {
	table := auth.NewPermissionTable(map[auth.Role][]auth.Capability{
		auth.RoleUser: {auth.CapViewDetails},
	}, nil)
	g := New(table)
	dest := g.ForCapability("/profile/offers", auth.CapOffersView)

	assert.False(t, dest.Public)
	assert.Empty(t, dest.AllowedRoles)
	assert.Equal(t, RedirectTo, g.CanEnter(dest, nil).Kind)
	assert.Equal(t, Decision{Kind: RedirectTo, Target: HomePath}, g.CanEnter(dest, identity(auth.RoleUser)))

	dest = g.DefaultRoutes().Lookup("/profile/offers")
	assert.False(t, dest.Public)
	assert.False(t, g.CanEnter(dest, nil).Allowed())
}
