package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/wayfarerhq/wayfarer/internal/access"
	auditdomain "github.com/wayfarerhq/wayfarer/internal/audit/domain"
	authdomain "github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/member/domain"
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
	Users    authdomain.Repository
	Resolver *access.Resolver
	GenID    *snowflake.Node
	Audit    auditdomain.Service `optional:"true"`
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	trips    tripdomain.Repository
	users    authdomain.Repository
	resolver *access.Resolver
	genID    *snowflake.Node
	audit    auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("member.service"),
		repo:     p.Repo,
		trips:    p.Trips,
		users:    p.Users,
		resolver: p.Resolver,
		genID:    p.GenID,
		audit:    p.Audit,
	}
}

func (s *service) List(ctx context.Context, userID snowflake.ID, tripID string) ([]domain.MemberResponse, error) {
	trip, _, err := s.standing(ctx, userID, tripID, access.ActionViewMembers)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.MemberResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.MemberResponse{
			ID:        item.ID.String(),
			TripID:    item.TripID.String(),
			UserID:    item.UserID.String(),
			Email:     item.Email,
			Name:      item.Name,
			Role:      item.Role,
			CreatedAt: item.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) Add(ctx context.Context, userID snowflake.ID, tripID string, req domain.AddMemberRequest) (*domain.MemberResponse, error) {
	trip, actorRole, err := s.standing(ctx, userID, tripID, access.ActionManageMembers)
	if err != nil {
		return nil, err
	}

	requested, ok := access.ParseRole(req.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if d := access.CheckAssign(actorRole, requested); !d.Allowed {
		s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers, d, "member", "")
		return nil, domain.ErrRoleNotAssignable
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	// The creator's effective role is derived, never managed through
	// membership actions.
	if user.ID == trip.CreatorID {
		return nil, domain.ErrOwnerProtected
	}

	now := time.Now().UTC()
	existing, err := s.repo.MemberByUser(ctx, trip.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if d := access.CheckTargetMutable(access.Role(existing.Role)); !d.Allowed {
			s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers, d, "member", existing.ID.String())
			return nil, domain.ErrOwnerProtected
		}
		// Upsert-shaped so retries are safe.
		if existing.Role != string(requested) {
			if err := s.repo.UpdateRole(ctx, existing.ID, string(requested), now); err != nil {
				return nil, err
			}
			existing.Role = string(requested)
		}
		return s.toResponse(existing, user), nil
	}

	member := domain.TripMember{
		ID:        s.genID.Generate(),
		TripID:    trip.ID,
		UserID:    user.ID,
		Role:      string(requested),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Add(ctx, member); err != nil {
		return nil, err
	}
	return s.toResponse(&member, user), nil
}

func (s *service) UpdateRole(ctx context.Context, userID snowflake.ID, tripID, memberID, newRole string) (*domain.MemberResponse, error) {
	trip, actorRole, err := s.standing(ctx, userID, tripID, access.ActionManageMembers)
	if err != nil {
		return nil, err
	}

	member, err := s.member(ctx, trip.ID, memberID)
	if err != nil {
		return nil, err
	}
	if d := s.targetMutable(trip, member); !d.Allowed {
		s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers, d, "member", member.ID.String())
		return nil, domain.ErrOwnerProtected
	}

	requested, ok := access.ParseRole(newRole)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if d := access.CheckAssign(actorRole, requested); !d.Allowed {
		s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers, d, "member", member.ID.String())
		return nil, domain.ErrRoleNotAssignable
	}

	if member.Role != string(requested) {
		if err := s.repo.UpdateRole(ctx, member.ID, string(requested), time.Now().UTC()); err != nil {
			return nil, err
		}
		member.Role = string(requested)
	}

	user, err := s.users.UserByID(ctx, member.UserID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(member, user), nil
}

func (s *service) Remove(ctx context.Context, userID snowflake.ID, tripID, memberID string) error {
	trip, _, err := s.standing(ctx, userID, tripID, access.ActionManageMembers)
	if err != nil {
		return err
	}

	member, err := s.member(ctx, trip.ID, memberID)
	if err != nil {
		return err
	}
	if d := s.targetMutable(trip, member); !d.Allowed {
		s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers, d, "member", member.ID.String())
		return domain.ErrOwnerProtected
	}

	if err := s.repo.Remove(ctx, member.ID); err != nil {
		return err
	}
	s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers,
		access.Decision{Allowed: true}, "member", member.ID.String())
	return nil
}

func (s *service) Leave(ctx context.Context, userID snowflake.ID, tripID string) error {
	trip, err := s.load(ctx, tripID)
	if err != nil {
		return err
	}
	effective, err := s.resolver.Resolve(ctx, trip.CreatorID, trip.ID, userID)
	if err != nil {
		return err
	}
	if effective == access.RoleNone {
		return domain.ErrTripNotFound
	}
	// The owner cannot leave their own trip; they delete it instead.
	if userID == trip.CreatorID || effective == access.RoleOwner {
		return domain.ErrOwnerProtected
	}

	member, err := s.repo.MemberByUser(ctx, trip.ID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrMemberNotFound
	}
	return s.repo.Remove(ctx, member.ID)
}

func (s *service) Invite(ctx context.Context, userID snowflake.ID, tripID string, req domain.InviteRequest) (*domain.InviteResponse, error) {
	trip, actorRole, err := s.standing(ctx, userID, tripID, access.ActionManageMembers)
	if err != nil {
		return nil, err
	}

	requested, ok := access.ParseRole(req.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if d := access.CheckAssign(actorRole, requested); !d.Allowed {
		s.recordAudit(ctx, trip.ID, userID, access.ActionManageMembers, d, "invite", "")
		return nil, domain.ErrRoleNotAssignable
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	invite := domain.TripInvite{
		ID:        s.genID.Generate(),
		TripID:    trip.ID,
		Email:     email,
		Role:      string(requested),
		Code:      uuid.NewString(),
		Status:    domain.InviteStatusPending,
		InvitedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	return &domain.InviteResponse{
		ID:        invite.ID.String(),
		TripID:    invite.TripID.String(),
		Email:     invite.Email,
		Role:      invite.Role,
		Code:      invite.Code,
		Status:    invite.Status,
		CreatedAt: invite.CreatedAt,
	}, nil
}

func (s *service) ListInvites(ctx context.Context, userID snowflake.ID, tripID string) ([]domain.InviteResponse, error) {
	trip, _, err := s.standing(ctx, userID, tripID, access.ActionViewMembers)
	if err != nil {
		return nil, err
	}

	invites, err := s.repo.ListInvitesByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.InviteResponse, 0, len(invites))
	for _, invite := range invites {
		resp = append(resp, domain.InviteResponse{
			ID:        invite.ID.String(),
			TripID:    invite.TripID.String(),
			Email:     invite.Email,
			Role:      invite.Role,
			Status:    invite.Status,
			CreatedAt: invite.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) AcceptInvite(ctx context.Context, userID snowflake.ID, code string) (*domain.MemberResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInviteNotFound
	}
	invite, err := s.repo.InviteByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, domain.ErrInviteNotFound
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !strings.EqualFold(user.Email, invite.Email) {
		return nil, domain.ErrInviteNotFound
	}

	existing, err := s.repo.MemberByUser(ctx, invite.TripID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Accepting twice is a no-op so retries are safe.
		return s.toResponse(existing, user), nil
	}
	if invite.Status != domain.InviteStatusPending {
		return nil, domain.ErrInviteNotFound
	}

	now := time.Now().UTC()
	member := domain.TripMember{
		ID:        s.genID.Generate(),
		TripID:    invite.TripID,
		UserID:    userID,
		Role:      invite.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Add(ctx, member); err != nil {
			return err
		}
		return repo.UpdateInviteStatus(ctx, invite.ID, domain.InviteStatusAccepted, now)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(&member, user), nil
}

func (s *service) RevokeInvite(ctx context.Context, userID snowflake.ID, tripID, inviteID string) error {
	trip, _, err := s.standing(ctx, userID, tripID, access.ActionManageMembers)
	if err != nil {
		return err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(inviteID))
	if err != nil || id == 0 {
		return domain.ErrInviteNotFound
	}
	invite, err := s.repo.InviteByID(ctx, trip.ID, id)
	if err != nil {
		return err
	}
	if invite == nil {
		return domain.ErrInviteNotFound
	}
	if invite.Status != domain.InviteStatusPending {
		return nil
	}
	return s.repo.UpdateInviteStatus(ctx, invite.ID, domain.InviteStatusRevoked, time.Now().UTC())
}

// standing loads the trip, resolves the caller's effective role, and runs
// the guard. Role-less callers see not-found; insufficient roles see
// forbidden. Denied manage decisions are audited.
func (s *service) standing(ctx context.Context, userID snowflake.ID, tripID string, action access.Action) (*tripdomain.Trip, access.Role, error) {
	trip, err := s.load(ctx, tripID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	role, err := s.resolver.Resolve(ctx, trip.CreatorID, trip.ID, userID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	decision := access.Authorize(role, action)
	if !decision.Allowed {
		if decision.Reason == access.DenyNotMember {
			return nil, access.RoleNone, domain.ErrTripNotFound
		}
		if action == access.ActionManageMembers {
			s.recordAudit(ctx, trip.ID, userID, action, decision, "trip", trip.ID.String())
		}
		return nil, access.RoleNone, domain.ErrForbidden
	}
	return trip, role, nil
}

func (s *service) load(ctx context.Context, tripID string) (*tripdomain.Trip, error) {
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
	return trip, nil
}

func (s *service) member(ctx context.Context, tripID snowflake.ID, memberID string) (*domain.TripMember, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(memberID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidMember
	}
	member, err := s.repo.MemberByID(ctx, tripID, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

// targetMutable protects the owner row through both signals: the stored
// role and the derived creator identity. A drifted row can never expose
// the creator's membership to mutation.
func (s *service) targetMutable(trip *tripdomain.Trip, member *domain.TripMember) access.Decision {
	if member.UserID == trip.CreatorID {
		return access.Decision{Reason: access.DenyOwnerProtected, Required: access.RoleOwner}
	}
	return access.CheckTargetMutable(access.Role(member.Role))
}

func (s *service) recordAudit(ctx context.Context, tripID, actorID snowflake.ID, action access.Action, d access.Decision, targetType, targetID string) {
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
		TargetType:   targetType,
		TargetID:     targetID,
		Metadata:     map[string]any{"reason": string(d.Reason)},
	})
}

func (s *service) toResponse(member *domain.TripMember, user *authdomain.User) *domain.MemberResponse {
	resp := &domain.MemberResponse{
		ID:        member.ID.String(),
		TripID:    member.TripID.String(),
		UserID:    member.UserID.String(),
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	}
	if user != nil {
		resp.Email = user.Email
		resp.Name = user.Name
	}
	return resp
}
