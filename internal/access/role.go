// Package access implements the trip access-control core: the role
// hierarchy, the role resolver, and the permission guard. Every operation
// that mutates a trip, its itinerary, or its membership goes through this
// package; no other code re-derives the policy.
package access

import "strings"

// Role is a member's role on a trip. The zero value means the user has no
// membership at all.
type Role string

const (
	RoleNone    Role = ""
	RoleViewer  Role = "VIEWER"
	RoleEditor  Role = "EDITOR"
	RoleCoOwner Role = "CO_OWNER"
	RoleOwner   Role = "OWNER"
)

// roleRanks is the authoritative ordering of roles. Comparisons go through
// this table rather than any enum ordinal so the policy stays auditable and
// independent of storage representation.
var roleRanks = map[Role]int{
	RoleViewer:  0,
	RoleEditor:  1,
	RoleCoOwner: 2,
	RoleOwner:   3,
}

// Rank returns the position of a role in the hierarchy. Unknown roles and
// RoleNone rank below every real role.
func Rank(r Role) int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// Known reports whether r is one of the four defined roles.
func (r Role) Known() bool {
	_, ok := roleRanks[r]
	return ok
}

// ParseRole normalizes a client-supplied role string.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	return r, r.Known()
}

// CanAssign reports whether an actor holding actorRole may assign
// targetRole to another member. An actor may only assign roles strictly
// below their own rank, and OWNER is never assignable: it arises solely
// from trip creation.
func CanAssign(actorRole, targetRole Role) bool {
	if targetRole == RoleOwner || !targetRole.Known() {
		return false
	}
	return Rank(targetRole) < Rank(actorRole)
}
