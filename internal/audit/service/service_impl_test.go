package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	"github.com/wayfarerhq/wayfarer/internal/audit/domain"
	"github.com/wayfarerhq/wayfarer/internal/audit/repository"
	memberdomain "github.com/wayfarerhq/wayfarer/internal/member/domain"
	memberrepository "github.com/wayfarerhq/wayfarer/internal/member/repository"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	triprepository "github.com/wayfarerhq/wayfarer/internal/trip/repository"
	"github.com/wayfarerhq/wayfarer/pkg/db"
	"go.uber.org/zap"
)

type testEnv struct {
	svc     domain.Service
	trips   tripdomain.Repository
	members memberdomain.Repository
	node    *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&tripdomain.Trip{},
		&memberdomain.TripMember{},
		&domain.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	trips := triprepository.NewRepository(dbConn)
	members := memberrepository.NewRepository(dbConn)
	svc := NewService(Params{
		Log:      zap.NewNop(),
		Repo:     repository.NewRepository(dbConn),
		Trips:    trips,
		Resolver: access.NewResolver(members),
		GenID:    node,
	})

	return &testEnv{svc: svc, trips: trips, members: members, node: node}
}

func seedTrip(t *testing.T, env *testEnv, creator snowflake.ID) snowflake.ID {
	t.Helper()

	now := time.Now().UTC()
	trip := tripdomain.Trip{
		ID:        env.node.Generate(),
		CreatorID: creator,
		Name:      "Audit Trail Trip",
		Slug:      "audit-trail-trip",
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 3),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := env.trips.Create(context.Background(), trip); err != nil {
		t.Fatalf("failed to seed trip: %v", err)
	}
	return trip.ID
}

func seedMember(t *testing.T, env *testEnv, tripID, userID snowflake.ID, role access.Role) {
	t.Helper()

	now := time.Now().UTC()
	err := env.members.Add(context.Background(), memberdomain.TripMember{
		ID:        env.node.Generate(),
		TripID:    tripID,
		UserID:    userID,
		Role:      string(role),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
}

func TestRecordAndListForTrip(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	tripID := seedTrip(t, env, creator)

	env.svc.Record(context.Background(), domain.Entry{
		TripID:   tripID,
		ActorID:  creator,
		Action:   "trip.delete",
		Decision: "denied",
		Metadata: map[string]any{"reason": "insufficient_role"},
	})

	logs, err := env.svc.ListForTrip(context.Background(), creator, tripID.String())
	if err != nil {
		t.Fatalf("failed to list audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one audit log, got %d", len(logs))
	}
	if logs[0].Action != "trip.delete" || logs[0].Decision != "denied" {
		t.Fatalf("unexpected audit log %+v", logs[0])
	}
}

func TestListForTripGating(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	editor := env.node.Generate()
	coOwner := env.node.Generate()
	stranger := env.node.Generate()
	tripID := seedTrip(t, env, creator)
	seedMember(t, env, tripID, editor, access.RoleEditor)
	seedMember(t, env, tripID, coOwner, access.RoleCoOwner)

	if _, err := env.svc.ListForTrip(context.Background(), stranger, tripID.String()); err != domain.ErrTripNotFound {
		t.Fatalf("expected ErrTripNotFound for stranger, got %v", err)
	}
	if _, err := env.svc.ListForTrip(context.Background(), editor, tripID.String()); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for editor, got %v", err)
	}
	if _, err := env.svc.ListForTrip(context.Background(), coOwner, tripID.String()); err != nil {
		t.Fatalf("co-owner should read audit logs, got %v", err)
	}
}

type failingRepo struct{}

func (failingRepo) Insert(ctx context.Context, entry domain.AuditLog) error {
	return errors.New("insert failed")
}

func (failingRepo) ListByTrip(ctx context.Context, tripID snowflake.ID, limit int) ([]domain.AuditLog, error) {
	return nil, errors.New("list failed")
}

func TestRecordSwallowsFailures(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	svc := NewService(Params{
		Log:   zap.NewNop(),
		Repo:  failingRepo{},
		GenID: node,
	})

	// Must not panic or propagate.
	svc.Record(context.Background(), domain.Entry{
		TripID:   node.Generate(),
		ActorID:  node.Generate(),
		Action:   "member.manage",
		Decision: "denied",
	})
}
