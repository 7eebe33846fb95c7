package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	"github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Trips    tripdomain.Repository
	Resolver *access.Resolver
	GenID    *snowflake.Node
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	trips    tripdomain.Repository
	resolver *access.Resolver
	genID    *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("itinerary.service"),
		repo:     p.Repo,
		trips:    p.Trips,
		resolver: p.Resolver,
		genID:    p.GenID,
	}
}

func (s *service) List(ctx context.Context, userID snowflake.ID, tripID string) ([]domain.ItemResponse, error) {
	trip, err := s.standing(ctx, userID, tripID, access.ActionViewItinerary)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, tripID string, req domain.CreateItemRequest) (*domain.ItemResponse, error) {
	trip, err := s.standing(ctx, userID, tripID, access.ActionWriteItinerary)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	now := time.Now().UTC()
	item := domain.ItineraryItem{
		ID:        s.genID.Generate(),
		TripID:    trip.ID,
		Title:     title,
		Location:  strings.TrimSpace(req.Location),
		Notes:     req.Notes,
		DayIndex:  req.DayIndex,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toResponse(&item), nil
}

func (s *service) Update(ctx context.Context, userID snowflake.ID, tripID, itemID string, req domain.UpdateItemRequest) (*domain.ItemResponse, error) {
	trip, err := s.standing(ctx, userID, tripID, access.ActionWriteItinerary)
	if err != nil {
		return nil, err
	}

	item, err := s.item(ctx, trip.ID, itemID)
	if err != nil {
		return nil, err
	}

	// Provided fields overwrite, omitted fields keep the stored value.
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Location != nil {
		item.Location = strings.TrimSpace(*req.Location)
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.DayIndex != nil {
		item.DayIndex = *req.DayIndex
	}
	if req.StartTime != nil {
		item.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		item.EndTime = req.EndTime
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *item); err != nil {
		return nil, err
	}
	return toResponse(item), nil
}

func (s *service) Delete(ctx context.Context, userID snowflake.ID, tripID, itemID string) error {
	trip, err := s.standing(ctx, userID, tripID, access.ActionWriteItinerary)
	if err != nil {
		return err
	}

	item, err := s.item(ctx, trip.ID, itemID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, item.ID)
}

// standing loads the trip and gates the action. Existence is checked
// first; a caller with no role sees not-found, an insufficient role sees
// forbidden. Item-level existence is only checked after standing is
// confirmed.
func (s *service) standing(ctx context.Context, userID snowflake.ID, tripID string, action access.Action) (*tripdomain.Trip, error) {
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
	decision := access.Authorize(role, action)
	if !decision.Allowed {
		if decision.Reason == access.DenyNotMember {
			return nil, domain.ErrTripNotFound
		}
		return nil, domain.ErrForbidden
	}
	return trip, nil
}

func (s *service) item(ctx context.Context, tripID snowflake.ID, itemID string) (*domain.ItineraryItem, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidItem
	}
	item, err := s.repo.Get(ctx, tripID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func toResponse(item *domain.ItineraryItem) *domain.ItemResponse {
	return &domain.ItemResponse{
		ID:        item.ID.String(),
		TripID:    item.TripID.String(),
		Title:     item.Title,
		Location:  item.Location,
		Notes:     item.Notes,
		DayIndex:  item.DayIndex,
		StartTime: item.StartTime,
		EndTime:   item.EndTime,
	}
}
