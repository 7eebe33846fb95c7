package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	itinerarydomain "github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	memberdomain "github.com/wayfarerhq/wayfarer/internal/member/domain"
	memberrepository "github.com/wayfarerhq/wayfarer/internal/member/repository"
	"github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"github.com/wayfarerhq/wayfarer/internal/trip/repository"
	"github.com/wayfarerhq/wayfarer/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc     domain.Service
	db      *gorm.DB
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
		&domain.Trip{},
		&memberdomain.TripMember{},
		&memberdomain.TripInvite{},
		&itinerarydomain.ItineraryItem{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	repo := repository.NewRepository(dbConn)
	members := memberrepository.NewRepository(dbConn)
	svc := NewService(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		Repo:     repo,
		Resolver: access.NewResolver(members),
		GenID:    node,
	})

	return &testEnv{svc: svc, db: dbConn, members: members, node: node}
}

func createTrip(t *testing.T, env *testEnv, creator snowflake.ID) *domain.TripResponse {
	t.Helper()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	trip, err := env.svc.Create(context.Background(), creator, domain.CreateTripRequest{
		Name:      "Kyoto in Autumn",
		Location:  "Kyoto, Japan",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 10),
		Notes:     "bring good shoes",
	})
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}

func addMember(t *testing.T, env *testEnv, tripID string, userID snowflake.ID, role access.Role) {
	t.Helper()

	id, err := snowflake.ParseString(tripID)
	if err != nil {
		t.Fatalf("failed to parse trip id: %v", err)
	}
	now := time.Now().UTC()
	err = env.members.Add(context.Background(), memberdomain.TripMember{
		ID:        env.node.Generate(),
		TripID:    id,
		UserID:    userID,
		Role:      string(role),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
}

func TestCreateTripWritesOwnerMemberRow(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()

	trip := createTrip(t, env, creator)
	if trip.Role != string(access.RoleOwner) {
		t.Fatalf("expected creator role OWNER, got %s", trip.Role)
	}
	if trip.Slug != "kyoto-in-autumn" {
		t.Fatalf("unexpected slug %s", trip.Slug)
	}

	tripID, _ := snowflake.ParseString(trip.ID)
	role, found, err := env.members.MemberRole(context.Background(), tripID, creator)
	if err != nil {
		t.Fatalf("failed to read member role: %v", err)
	}
	if !found || role != access.RoleOwner {
		t.Fatalf("expected owner mirror row, got found=%v role=%s", found, role)
	}
}

func TestCreateTripInvalidDates(t *testing.T) {
	env := newTestEnv(t)

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := env.svc.Create(context.Background(), env.node.Generate(), domain.CreateTripRequest{
		Name:      "Backwards",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
	})
	if err != domain.ErrInvalidDates {
		t.Fatalf("expected ErrInvalidDates, got %v", err)
	}
}

func TestGetTripNonMemberSeesNotFound(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	stranger := env.node.Generate()

	trip := createTrip(t, env, creator)

	_, err := env.svc.Get(context.Background(), stranger, trip.ID)
	if err != domain.ErrTripNotFound {
		t.Fatalf("expected ErrTripNotFound for non-member, got %v", err)
	}
}

func TestUpdateTripPartialMerge(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	trip := createTrip(t, env, creator)

	empty := ""
	updated, err := env.svc.Update(context.Background(), creator, trip.ID, domain.UpdateTripRequest{
		Notes: &empty,
	})
	if err != nil {
		t.Fatalf("failed to update trip: %v", err)
	}
	if updated.Notes != "" {
		t.Fatalf("explicit empty notes should clear the field, got %q", updated.Notes)
	}
	if updated.Name != trip.Name {
		t.Fatalf("omitted name should keep stored value, got %q", updated.Name)
	}
	if updated.Location != trip.Location {
		t.Fatalf("omitted location should keep stored value, got %q", updated.Location)
	}

	name := "Kyoto and Osaka"
	updated, err = env.svc.Update(context.Background(), creator, trip.ID, domain.UpdateTripRequest{
		Name: &name,
	})
	if err != nil {
		t.Fatalf("failed to update trip: %v", err)
	}
	if updated.Slug != "kyoto-and-osaka" {
		t.Fatalf("expected slug refresh on rename, got %s", updated.Slug)
	}
}

func TestUpdateTripEditorForbidden(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	editor := env.node.Generate()
	trip := createTrip(t, env, creator)
	addMember(t, env, trip.ID, editor, access.RoleEditor)

	name := "Hijacked"
	_, err := env.svc.Update(context.Background(), editor, trip.ID, domain.UpdateTripRequest{Name: &name})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for editor, got %v", err)
	}
}

func TestDeleteTripRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	coOwner := env.node.Generate()
	trip := createTrip(t, env, creator)
	addMember(t, env, trip.ID, coOwner, access.RoleCoOwner)

	if err := env.svc.Delete(context.Background(), coOwner, trip.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for co-owner delete, got %v", err)
	}
	if err := env.svc.Delete(context.Background(), creator, trip.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := env.svc.Get(context.Background(), creator, trip.ID); err != domain.ErrTripNotFound {
		t.Fatalf("expected ErrTripNotFound after delete, got %v", err)
	}
}

func TestDeleteTripCascades(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	trip := createTrip(t, env, creator)
	tripID, _ := snowflake.ParseString(trip.ID)

	now := time.Now().UTC()
	err := env.db.Create(&itinerarydomain.ItineraryItem{
		ID:        env.node.Generate(),
		TripID:    tripID,
		Title:     "Fushimi Inari",
		DayIndex:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
	if err != nil {
		t.Fatalf("failed to seed itinerary item: %v", err)
	}

	if err := env.svc.Delete(context.Background(), creator, trip.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	for _, table := range []string{"itinerary_items", "trip_members", "trip_invites"} {
		var count int64
		if err := env.db.Table(table).Where("trip_id = ?", tripID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected zero %s rows after cascade, got %d", table, count)
		}
	}

	var count int64
	if err := env.db.Table("trips").Where("id = ?", tripID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count trips: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected trip row to be gone, got %d", count)
	}
}

func TestListByUserIncludesRole(t *testing.T) {
	env := newTestEnv(t)
	creator := env.node.Generate()
	viewer := env.node.Generate()
	trip := createTrip(t, env, creator)
	addMember(t, env, trip.ID, viewer, access.RoleViewer)

	trips, err := env.svc.ListByUser(context.Background(), viewer)
	if err != nil {
		t.Fatalf("failed to list trips: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected one trip, got %d", len(trips))
	}
	if trips[0].Role != string(access.RoleViewer) {
		t.Fatalf("expected VIEWER role in listing, got %s", trips[0].Role)
	}
}
