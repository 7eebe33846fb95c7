package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateTripRequest) (*TripResponse, error)
	Get(ctx context.Context, userID snowflake.ID, tripID string) (*TripResponse, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]TripListResponseItem, error)
	Update(ctx context.Context, userID snowflake.ID, tripID string, req UpdateTripRequest) (*TripResponse, error)
	Delete(ctx context.Context, userID snowflake.ID, tripID string) error
}

type CreateTripRequest struct {
	Name      string
	Location  string
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

// UpdateTripRequest carries a partial update. A nil field is an omission
// and keeps the stored value; a non-nil pointer overwrites, including a
// pointer to the empty string.
type UpdateTripRequest struct {
	Name      *string
	Location  *string
	StartDate *time.Time
	EndDate   *time.Time
	Notes     *string
}

type TripResponse struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Notes     string    `json:"notes"`
	Role      string    `json:"role,omitempty"`
}

type TripListResponseItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Role      string    `json:"role"`
}

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidTrip  = errors.New("invalid_trip")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidDates = errors.New("invalid_dates")
	ErrTripNotFound = errors.New("trip_not_found")
	ErrForbidden    = errors.New("forbidden")
)
