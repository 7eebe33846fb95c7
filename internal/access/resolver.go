package access

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// MemberReader is the narrow slice of the membership store the resolver
// needs. The member repository satisfies it.
type MemberReader interface {
	// MemberRole returns the stored role for (tripID, userID) and whether
	// a membership row exists. Store failures are infrastructure errors.
	MemberRole(ctx context.Context, tripID, userID snowflake.ID) (Role, bool, error)
}

// Resolver computes a user's effective role on a trip.
type Resolver struct {
	members MemberReader
}

func NewResolver(members MemberReader) *Resolver {
	return &Resolver{members: members}
}

// Resolve returns the effective role of userID on the trip owned by
// creatorID. The creator is always OWNER: the membership table is not
// consulted in that case, so a missing or corrupted mirror row can never
// demote the creator. For everyone else the membership row is the source
// of truth; RoleNone means the caller is an outsider to this trip.
//
// Trip existence is the caller's concern: services load the trip first and
// report not-found before resolving.
func (r *Resolver) Resolve(ctx context.Context, creatorID, tripID, userID snowflake.ID) (Role, error) {
	if creatorID == userID {
		return RoleOwner, nil
	}
	role, found, err := r.members.MemberRole(ctx, tripID, userID)
	if err != nil {
		return RoleNone, err
	}
	if !found {
		return RoleNone, nil
	}
	return role, nil
}
