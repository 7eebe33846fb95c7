// Package domain defines the audit log contract. Authorization denials
// and destructive grants are recorded with enough structure to explain the
// decision without leaking member identities.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	TripID       snowflake.ID      `gorm:"column:trip_id;not null;index" json:"trip_id"`
	ActorID      snowflake.ID      `gorm:"column:actor_id;not null;index" json:"actor_id"`
	Action       string            `gorm:"type:text;not null" json:"action"`
	Decision     string            `gorm:"type:text;not null" json:"decision"`
	RequiredRole string            `gorm:"column:required_role;type:text" json:"required_role"`
	TargetType   string            `gorm:"column:target_type;type:text" json:"target_type"`
	TargetID     string            `gorm:"column:target_id;type:text" json:"target_id"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

type Entry struct {
	TripID       snowflake.ID
	ActorID      snowflake.ID
	Action       string
	Decision     string
	RequiredRole string
	TargetType   string
	TargetID     string
	Metadata     map[string]any
}

type Service interface {
	// Record is best-effort: failures are logged, never propagated into
	// the calling operation's outcome.
	Record(ctx context.Context, entry Entry)
	ListForTrip(ctx context.Context, userID snowflake.ID, tripID string) ([]AuditLog, error)
}

type Repository interface {
	Insert(ctx context.Context, entry AuditLog) error
	ListByTrip(ctx context.Context, tripID snowflake.ID, limit int) ([]AuditLog, error)
}

var (
	ErrInvalidAction = errors.New("invalid_action")
	ErrInvalidTrip   = errors.New("invalid_trip")
	ErrTripNotFound  = errors.New("trip_not_found")
	ErrForbidden     = errors.New("forbidden")
)
