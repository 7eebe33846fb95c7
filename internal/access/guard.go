package access

// Action identifies a category of operation gated by the permission guard.
type Action string

const (
	ActionViewTrip       Action = "trip.view"
	ActionEditTrip       Action = "trip.edit"
	ActionDeleteTrip     Action = "trip.delete"
	ActionViewItinerary  Action = "itinerary.view"
	ActionWriteItinerary Action = "itinerary.write"
	ActionViewMembers    Action = "member.view"
	ActionManageMembers  Action = "member.manage"
)

// DenyReason distinguishes why the guard rejected an action. Callers map
// these to user-facing outcomes: DenyNotMember should degrade to a
// not-found response so trip existence is not leaked.
type DenyReason string

const (
	DenyNotMember         DenyReason = "not_member"
	DenyInsufficientRole  DenyReason = "insufficient_role"
	DenyOwnerProtected    DenyReason = "owner_protected"
	DenyRoleNotAssignable DenyReason = "role_not_assignable"
)

// Decision is the outcome of a guard check. Required carries the minimum
// role that would have been sufficient, for audit logs and error messages.
type Decision struct {
	Allowed  bool
	Reason   DenyReason
	Required Role
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason, required Role) Decision {
	return Decision{Reason: reason, Required: required}
}

// minRoleFor is the rank floor per action. DeleteTrip is absent on
// purpose: it requires the exact OWNER role, not a rank comparison.
var minRoleFor = map[Action]Role{
	ActionViewTrip:       RoleViewer,
	ActionViewItinerary:  RoleViewer,
	ActionWriteItinerary: RoleEditor,
	ActionEditTrip:       RoleCoOwner,
	ActionViewMembers:    RoleCoOwner,
	ActionManageMembers:  RoleCoOwner,
}

// Authorize decides whether a role may perform an action. It is a pure
// function of its two arguments.
func Authorize(role Role, action Action) Decision {
	if action == ActionDeleteTrip {
		if role == RoleOwner {
			return allow()
		}
		if role == RoleNone {
			return deny(DenyNotMember, RoleOwner)
		}
		return deny(DenyInsufficientRole, RoleOwner)
	}

	min, ok := minRoleFor[action]
	if !ok {
		return deny(DenyInsufficientRole, RoleOwner)
	}
	if role == RoleNone || !role.Known() {
		return deny(DenyNotMember, min)
	}
	if Rank(role) >= Rank(min) {
		return allow()
	}
	return deny(DenyInsufficientRole, min)
}

// CheckAssign decides whether an actor may hand out the requested role.
// The deny reason is distinct from plain rank insufficiency so callers can
// report "you cannot grant that role" separately from "you cannot manage
// members at all".
func CheckAssign(actorRole, requested Role) Decision {
	if CanAssign(actorRole, requested) {
		return allow()
	}
	return deny(DenyRoleNotAssignable, actorRole)
}

// CheckTargetMutable guards the single-owner invariant: a membership row
// holding OWNER can never be re-roled or removed, whatever the acting
// role's rank. This holds even if a bug ever granted another actor owner
// rank.
func CheckTargetMutable(targetRole Role) Decision {
	if targetRole == RoleOwner {
		return deny(DenyOwnerProtected, RoleOwner)
	}
	return allow()
}
