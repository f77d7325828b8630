package league

import "sort"

type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		if role.Valid() {
			set[role] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// CanOverride reports whether the holder may grade regardless of the
// current status.
func (s RoleSet) CanOverride() bool {
	return s.HasAny(RoleHost, RoleGovernor)
}

// Participates reports whether the holder competes. Captains always do.
func (s RoleSet) Participates() bool {
	return s.HasAny(RolePlayer, RoleCaptain)
}

func (s RoleSet) Slice() []Role {
	roles := make([]Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
