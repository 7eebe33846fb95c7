package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item domain.ItineraryItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *repository) Get(ctx context.Context, tripID, itemID snowflake.ID) (*domain.ItineraryItem, error) {
	var item domain.ItineraryItem
	err := r.db.WithContext(ctx).First(&item, "id = ? AND trip_id = ?", itemID, tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, item domain.ItineraryItem) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE itinerary_items
		 SET title = ?, location = ?, notes = ?, day_index = ?, start_time = ?, end_time = ?, updated_at = ?
		 WHERE id = ?`,
		item.Title,
		item.Location,
		item.Notes,
		item.DayIndex,
		item.StartTime,
		item.EndTime,
		item.UpdatedAt,
		item.ID,
	).Error
}

func (r *repository) Delete(ctx context.Context, itemID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM itinerary_items WHERE id = ?`, itemID,
	).Error
}

func (r *repository) ListByTrip(ctx context.Context, tripID snowflake.ID) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("day_index ASC, start_time ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
