package authroles

import (
	"strings"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
)

// ClaimRoleMapper maps a token's role claim to an application role.
// Aliases are matched case-insensitively after the ROLE_ prefix is stripped,
// e.g. {"BROKER": RoleAgent}. Anything else goes through ParseRole.
type ClaimRoleMapper struct {
	Aliases map[string]domainauth.Role
}

func (m ClaimRoleMapper) Map(claim string) domainauth.Role {
	parsed := domainauth.ParseRole(claim)
	for alias, role := range m.Aliases {
		if strings.EqualFold(string(domainauth.ParseRole(alias)), string(parsed)) {
			return role
		}
	}
	return parsed
}
