package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/audit/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, entry domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *repository) ListByTrip(ctx context.Context, tripID snowflake.ID, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
