package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type TripListItem struct {
	ID        snowflake.ID
	Name      string
	Slug      string
	Location  string
	StartDate time.Time
	EndDate   time.Time
	Role      string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, trip Trip) error
	// AddOwnerMember mirrors the creator into the membership table for
	// listing/joins. The mirror is never authoritative for authorization.
	AddOwnerMember(ctx context.Context, memberID, tripID, userID snowflake.ID, role string, now time.Time) error
	Get(ctx context.Context, id snowflake.ID) (*Trip, error)
	Update(ctx context.Context, trip Trip) error
	ListByUser(ctx context.Context, userID snowflake.ID) ([]TripListItem, error)
	// DeleteCascade removes the trip's itinerary items, members, and
	// invites before the trip row itself. Run inside a transaction.
	DeleteCascade(ctx context.Context, tripID snowflake.ID) error
}
