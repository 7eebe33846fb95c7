// Package domain contains persistence models and contracts for trip
// membership.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TripMember relates a user to a trip with a role. At most one row exists
// per (trip, user). The creator's OWNER row is a mirror kept for listing
// and joins; authorization always derives the creator's role from
// trips.creator_id instead.
type TripMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TripID    snowflake.ID `gorm:"column:trip_id;not null;index;uniqueIndex:ux_trip_user,priority:1" json:"trip_id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:ux_trip_user,priority:2" json:"user_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TripMember) TableName() string { return "trip_members" }

const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusRevoked  = "REVOKED"
)

// TripInvite tracks a pending invite to a trip.
type TripInvite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TripID    snowflake.ID `gorm:"column:trip_id;not null;index" json:"trip_id"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Code      string       `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	InvitedBy snowflake.ID `gorm:"column:invited_by;not null;index" json:"invited_by"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TripInvite) TableName() string { return "trip_invites" }
