package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	"gorm.io/gorm"
)

type MemberListItem struct {
	ID        snowflake.ID
	TripID    snowflake.ID
	UserID    snowflake.ID
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

// Repository persists membership rows and invites. MemberRole satisfies
// access.MemberReader so the resolver can read through it.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	MemberRole(ctx context.Context, tripID, userID snowflake.ID) (access.Role, bool, error)
	MemberByID(ctx context.Context, tripID, memberID snowflake.ID) (*TripMember, error)
	MemberByUser(ctx context.Context, tripID, userID snowflake.ID) (*TripMember, error)
	ListByTrip(ctx context.Context, tripID snowflake.ID) ([]MemberListItem, error)
	Add(ctx context.Context, member TripMember) error
	UpdateRole(ctx context.Context, memberID snowflake.ID, role string, now time.Time) error
	Remove(ctx context.Context, memberID snowflake.ID) error

	CreateInvite(ctx context.Context, invite TripInvite) error
	InviteByID(ctx context.Context, tripID, inviteID snowflake.ID) (*TripInvite, error)
	InviteByCode(ctx context.Context, code string) (*TripInvite, error)
	ListInvitesByTrip(ctx context.Context, tripID snowflake.ID) ([]TripInvite, error)
	UpdateInviteStatus(ctx context.Context, inviteID snowflake.ID, status string, now time.Time) error
}
