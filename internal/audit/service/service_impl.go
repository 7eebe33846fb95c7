package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	"github.com/wayfarerhq/wayfarer/internal/audit/domain"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	Trips    tripdomain.Repository
	Resolver *access.Resolver
	GenID    *snowflake.Node
}

type service struct {
	log      *zap.Logger
	repo     domain.Repository
	trips    tripdomain.Repository
	resolver *access.Resolver
	genID    *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &service{
		log:      p.Log.Named("audit.service"),
		repo:     p.Repo,
		trips:    p.Trips,
		resolver: p.Resolver,
		genID:    p.GenID,
	}
}

// Record writes the entry and swallows failures. An audit write must
// never change the outcome of the operation that triggered it.
func (s *service) Record(ctx context.Context, entry domain.Entry) {
	if entry.Action == "" {
		s.log.Warn("audit entry without action dropped",
			zap.String("trip_id", entry.TripID.String()),
			zap.String("actor_id", entry.ActorID.String()),
		)
		return
	}

	meta := datatypes.JSONMap{}
	for k, v := range entry.Metadata {
		meta[k] = v
	}

	row := domain.AuditLog{
		ID:           s.genID.Generate(),
		TripID:       entry.TripID,
		ActorID:      entry.ActorID,
		Action:       entry.Action,
		Decision:     entry.Decision,
		RequiredRole: entry.RequiredRole,
		TargetType:   entry.TargetType,
		TargetID:     entry.TargetID,
		Metadata:     meta,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.log.Warn("audit write failed",
			zap.String("trip_id", entry.TripID.String()),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func (s *service) ListForTrip(ctx context.Context, userID snowflake.ID, tripID string) ([]domain.AuditLog, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(tripID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidTrip
	}
	trip, err := s.trips.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, domain.ErrTripNotFound
	}

	role, err := s.resolver.Resolve(ctx, trip.CreatorID, trip.ID, userID)
	if err != nil {
		return nil, err
	}
	decision := access.Authorize(role, access.ActionViewMembers)
	if !decision.Allowed {
		if decision.Reason == access.DenyNotMember {
			return nil, domain.ErrTripNotFound
		}
		return nil, domain.ErrForbidden
	}

	return s.repo.ListByTrip(ctx, trip.ID, 100)
}
