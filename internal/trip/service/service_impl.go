package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/wayfarerhq/wayfarer/internal/access"
	auditdomain "github.com/wayfarerhq/wayfarer/internal/audit/domain"
	"github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Resolver *access.Resolver
	GenID    *snowflake.Node
	Audit    auditdomain.Service `optional:"true"`
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	resolver *access.Resolver
	genID    *snowflake.Node
	audit    auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("trip.service"),
		repo:     p.Repo,
		resolver: p.Resolver,
		genID:    p.GenID,
		audit:    p.Audit,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateTripRequest) (*domain.TripResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return nil, domain.ErrInvalidDates
	}

	now := time.Now().UTC()
	trip := domain.Trip{
		ID:        s.genID.Generate(),
		CreatorID: userID,
		Name:      name,
		Slug:      slug.Make(name),
		Location:  strings.TrimSpace(req.Location),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, trip); err != nil {
			return err
		}
		return repo.AddOwnerMember(ctx, s.genID.Generate(), trip.ID, userID, string(access.RoleOwner), now)
	})
	if err != nil {
		return nil, err
	}

	return toResponse(&trip, access.RoleOwner), nil
}

func (s *service) Get(ctx context.Context, userID snowflake.ID, tripID string) (*domain.TripResponse, error) {
	trip, err := s.load(ctx, tripID)
	if err != nil {
		return nil, err
	}
	role, err := s.resolver.Resolve(ctx, trip.CreatorID, trip.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := outcome(access.Authorize(role, access.ActionViewTrip)); err != nil {
		return nil, err
	}
	return toResponse(trip, role), nil
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.TripListResponseItem, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.TripListResponseItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.TripListResponseItem{
			ID:        item.ID.String(),
			Name:      item.Name,
			Slug:      item.Slug,
			Location:  item.Location,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
			Role:      item.Role,
		})
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, userID snowflake.ID, tripID string, req domain.UpdateTripRequest) (*domain.TripResponse, error) {
	trip, err := s.load(ctx, tripID)
	if err != nil {
		return nil, err
	}
	role, err := s.resolver.Resolve(ctx, trip.CreatorID, trip.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := outcome(access.Authorize(role, access.ActionEditTrip)); err != nil {
		return nil, err
	}

	// Merge policy: a provided field overwrites, an omitted field keeps
	// the stored value. An explicit empty string is a provided value.
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		trip.Name = name
		trip.Slug = slug.Make(name)
	}
	if req.Location != nil {
		trip.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = *req.EndDate
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}
	if trip.EndDate.Before(trip.StartDate) {
		return nil, domain.ErrInvalidDates
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *trip); err != nil {
		return nil, err
	}
	return toResponse(trip, role), nil
}

func (s *service) Delete(ctx context.Context, userID snowflake.ID, tripID string) error {
	trip, err := s.load(ctx, tripID)
	if err != nil {
		return err
	}
	role, err := s.resolver.Resolve(ctx, trip.CreatorID, trip.ID, userID)
	if err != nil {
		return err
	}
	decision := access.Authorize(role, access.ActionDeleteTrip)
	if !decision.Allowed {
		s.recordAudit(ctx, trip.ID, userID, access.ActionDeleteTrip, decision)
		return outcome(decision)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCascade(ctx, trip.ID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, trip.ID, userID, access.ActionDeleteTrip, decision)
	return nil
}

func (s *service) load(ctx context.Context, tripID string) (*domain.Trip, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(tripID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidTrip
	}
	trip, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, domain.ErrTripNotFound
	}
	return trip, nil
}

func (s *service) recordAudit(ctx context.Context, tripID, actorID snowflake.ID, action access.Action, d access.Decision) {
	if s.audit == nil {
		return
	}
	decision := "granted"
	if !d.Allowed {
		decision = "denied"
	}
	s.audit.Record(ctx, auditdomain.Entry{
		TripID:       tripID,
		ActorID:      actorID,
		Action:       string(action),
		Decision:     decision,
		RequiredRole: string(d.Required),
		TargetType:   "trip",
		TargetID:     tripID.String(),
		Metadata:     map[string]any{"reason": string(d.Reason)},
	})
}

// outcome converts a guard decision into the operation's error. A caller
// with no role at all sees not-found so trip existence is not leaked; a
// caller with an insufficient role sees forbidden.
func outcome(d access.Decision) error {
	if d.Allowed {
		return nil
	}
	if d.Reason == access.DenyNotMember {
		return domain.ErrTripNotFound
	}
	return domain.ErrForbidden
}

func toResponse(trip *domain.Trip, role access.Role) *domain.TripResponse {
	return &domain.TripResponse{
		ID:        trip.ID.String(),
		CreatorID: trip.CreatorID.String(),
		Name:      trip.Name,
		Slug:      trip.Slug,
		Location:  trip.Location,
		StartDate: trip.StartDate,
		EndDate:   trip.EndDate,
		Notes:     trip.Notes,
		Role:      string(role),
	}
}
