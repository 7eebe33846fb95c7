package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	"github.com/wayfarerhq/wayfarer/internal/member/domain"
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

func (r *repository) MemberRole(ctx context.Context, tripID, userID snowflake.ID) (access.Role, bool, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	result := r.db.WithContext(ctx).Raw(
		`SELECT role FROM trip_members WHERE trip_id = ? AND user_id = ? LIMIT 1`,
		tripID,
		userID,
	).Scan(&row)
	if result.Error != nil {
		return access.RoleNone, false, result.Error
	}
	if result.RowsAffected == 0 {
		return access.RoleNone, false, nil
	}
	return access.Role(row.Role), true, nil
}

func (r *repository) MemberByID(ctx context.Context, tripID, memberID snowflake.ID) (*domain.TripMember, error) {
	var member domain.TripMember
	err := r.db.WithContext(ctx).First(&member, "id = ? AND trip_id = ?", memberID, tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) MemberByUser(ctx context.Context, tripID, userID snowflake.ID) (*domain.TripMember, error) {
	var member domain.TripMember
	err := r.db.WithContext(ctx).First(&member, "trip_id = ? AND user_id = ?", tripID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListByTrip(ctx context.Context, tripID snowflake.ID) ([]domain.MemberListItem, error) {
	var items []domain.MemberListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT m.id, m.trip_id, m.user_id, u.email, u.name, m.role, m.created_at
		 FROM trip_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.trip_id = ?
		 ORDER BY CASE m.role
			WHEN 'OWNER' THEN 3
			WHEN 'CO_OWNER' THEN 2
			WHEN 'EDITOR' THEN 1
			ELSE 0
		 END DESC, m.created_at ASC`,
		tripID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Add(ctx context.Context, member domain.TripMember) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO trip_members (id, trip_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.TripID,
		member.UserID,
		member.Role,
		member.CreatedAt,
		member.UpdatedAt,
	).Error
}

func (r *repository) UpdateRole(ctx context.Context, memberID snowflake.ID, role string, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE trip_members SET role = ?, updated_at = ? WHERE id = ?`,
		role,
		now,
		memberID,
	).Error
}

func (r *repository) Remove(ctx context.Context, memberID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM trip_members WHERE id = ?`, memberID,
	).Error
}

func (r *repository) CreateInvite(ctx context.Context, invite domain.TripInvite) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO trip_invites (id, trip_id, email, role, code, status, invited_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invite.ID,
		invite.TripID,
		invite.Email,
		invite.Role,
		invite.Code,
		invite.Status,
		invite.InvitedBy,
		invite.CreatedAt,
		invite.UpdatedAt,
	).Error
}

func (r *repository) InviteByID(ctx context.Context, tripID, inviteID snowflake.ID) (*domain.TripInvite, error) {
	var invite domain.TripInvite
	err := r.db.WithContext(ctx).First(&invite, "id = ? AND trip_id = ?", inviteID, tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) InviteByCode(ctx context.Context, code string) (*domain.TripInvite, error) {
	var invite domain.TripInvite
	err := r.db.WithContext(ctx).First(&invite, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) ListInvitesByTrip(ctx context.Context, tripID snowflake.ID) ([]domain.TripInvite, error) {
	var invites []domain.TripInvite
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *repository) UpdateInviteStatus(ctx context.Context, inviteID snowflake.ID, status string, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE trip_invites SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		now,
		inviteID,
	).Error
}
