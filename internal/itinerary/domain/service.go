package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context, userID snowflake.ID, tripID string) ([]ItemResponse, error)
	Create(ctx context.Context, userID snowflake.ID, tripID string, req CreateItemRequest) (*ItemResponse, error)
	Update(ctx context.Context, userID snowflake.ID, tripID, itemID string, req UpdateItemRequest) (*ItemResponse, error)
	Delete(ctx context.Context, userID snowflake.ID, tripID, itemID string) error
}

type CreateItemRequest struct {
	Title     string
	Location  string
	Notes     string
	DayIndex  int
	StartTime *time.Time
	EndTime   *time.Time
}

// UpdateItemRequest carries a partial update; nil fields keep the stored
// value.
type UpdateItemRequest struct {
	Title     *string
	Location  *string
	Notes     *string
	DayIndex  *int
	StartTime *time.Time
	EndTime   *time.Time
}

type ItemResponse struct {
	ID        string     `json:"id"`
	TripID    string     `json:"trip_id"`
	Title     string     `json:"title"`
	Location  string     `json:"location"`
	Notes     string     `json:"notes"`
	DayIndex  int        `json:"day_index"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

var (
	ErrInvalidTrip  = errors.New("invalid_trip")
	ErrInvalidItem  = errors.New("invalid_item")
	ErrInvalidTitle = errors.New("invalid_title")
	ErrTripNotFound = errors.New("trip_not_found")
	ErrItemNotFound = errors.New("item_not_found")
	ErrForbidden    = errors.New("forbidden")
)
