package authroles

import (
	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to roles by simple membership rules.
// An empty MemberGroup admits every authenticated user as a member.
type StaticRoleMapper struct {
	MemberGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.MemberGroup == "" {
		return domainauth.RoleMember
	}
	for _, g := range groups {
		if g == m.MemberGroup {
			return domainauth.RoleMember
		}
	}
	return domainauth.RoleGuest
}
