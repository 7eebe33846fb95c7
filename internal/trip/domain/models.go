// Package domain contains persistence models and contracts for the trip
// service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Trip is a planned trip. CreatorID is immutable after creation: the
// creator is always resolved as OWNER regardless of the membership table.
type Trip struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	CreatorID snowflake.ID      `gorm:"column:creator_id;not null;index" json:"creator_id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Slug      string            `gorm:"type:text;not null;index" json:"slug"`
	Location  string            `gorm:"type:text" json:"location"`
	StartDate time.Time         `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time         `gorm:"column:end_date;not null" json:"end_date"`
	Notes     string            `gorm:"type:text" json:"notes"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Trip) TableName() string { return "trips" }
