package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/trip/domain"
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

func (r *repository) Create(ctx context.Context, trip domain.Trip) error {
	return r.db.WithContext(ctx).Create(&trip).Error
}

func (r *repository) AddOwnerMember(ctx context.Context, memberID, tripID, userID snowflake.ID, role string, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO trip_members (id, trip_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		memberID,
		tripID,
		userID,
		role,
		now,
		now,
	).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Trip, error) {
	var trip domain.Trip
	err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) Update(ctx context.Context, trip domain.Trip) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE trips
		 SET name = ?, slug = ?, location = ?, start_date = ?, end_date = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		trip.Name,
		trip.Slug,
		trip.Location,
		trip.StartDate,
		trip.EndDate,
		trip.Notes,
		trip.UpdatedAt,
		trip.ID,
	).Error
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.TripListItem, error) {
	var items []domain.TripListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.id, t.name, t.slug, t.location, t.start_date, t.end_date, m.role
		 FROM trips t
		 JOIN trip_members m ON m.trip_id = t.id
		 WHERE m.user_id = ?
		 ORDER BY t.start_date ASC, t.id ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) DeleteCascade(ctx context.Context, tripID snowflake.ID) error {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM itinerary_items WHERE trip_id = ?`, tripID,
	).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM trip_invites WHERE trip_id = ?`, tripID,
	).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM trip_members WHERE trip_id = ?`, tripID,
	).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM trips WHERE id = ?`, tripID,
	).Error
}
