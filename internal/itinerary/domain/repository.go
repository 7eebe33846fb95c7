package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item ItineraryItem) error
	// Get scopes by trip: an item id from another trip is not found.
	Get(ctx context.Context, tripID, itemID snowflake.ID) (*ItineraryItem, error)
	Update(ctx context.Context, item ItineraryItem) error
	Delete(ctx context.Context, itemID snowflake.ID) error
	ListByTrip(ctx context.Context, tripID snowflake.ID) ([]ItineraryItem, error)
}
