// Package domain contains persistence models and contracts for itinerary
// items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ItineraryItem belongs to exactly one trip and is deleted with it.
type ItineraryItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TripID    snowflake.ID `gorm:"column:trip_id;not null;index" json:"trip_id"`
	Title     string       `gorm:"type:text;not null" json:"title"`
	Location  string       `gorm:"type:text" json:"location"`
	Notes     string       `gorm:"type:text" json:"notes"`
	DayIndex  int          `gorm:"column:day_index;not null;default:0" json:"day_index"`
	StartTime *time.Time   `gorm:"column:start_time" json:"start_time,omitempty"`
	EndTime   *time.Time   `gorm:"column:end_time" json:"end_time,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ItineraryItem) TableName() string { return "itinerary_items" }
