package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/access"
	authdomain "github.com/wayfarerhq/wayfarer/internal/auth/domain"
	authrepository "github.com/wayfarerhq/wayfarer/internal/auth/repository"
	"github.com/wayfarerhq/wayfarer/internal/member/domain"
	"github.com/wayfarerhq/wayfarer/internal/member/repository"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	triprepository "github.com/wayfarerhq/wayfarer/internal/trip/repository"
	tripservice "github.com/wayfarerhq/wayfarer/internal/trip/service"
	"github.com/wayfarerhq/wayfarer/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc   domain.Service
	trips tripdomain.Service
	users authdomain.Repository
	db    *gorm.DB
	node  *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&authdomain.User{},
		&tripdomain.Trip{},
		&domain.TripMember{},
		&domain.TripInvite{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	memberRepo := repository.NewRepository(dbConn)
	tripRepo := triprepository.NewRepository(dbConn)
	userRepo := authrepository.NewRepository(dbConn)
	resolver := access.NewResolver(memberRepo)

	trips := tripservice.NewService(tripservice.Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		Repo:     tripRepo,
		Resolver: resolver,
		GenID:    node,
	})
	svc := NewService(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		Repo:     memberRepo,
		Trips:    tripRepo,
		Users:    userRepo,
		Resolver: resolver,
		GenID:    node,
	})

	return &testEnv{svc: svc, trips: trips, users: userRepo, db: dbConn, node: node}
}

func createUser(t *testing.T, env *testEnv, email string) snowflake.ID {
	t.Helper()

	now := time.Now().UTC()
	user := authdomain.User{
		ID:           env.node.Generate(),
		Email:        email,
		Name:         email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := env.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user.ID
}

func createTrip(t *testing.T, env *testEnv, creator snowflake.ID) string {
	t.Helper()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	trip, err := env.trips.Create(context.Background(), creator, tripdomain.CreateTripRequest{
		Name:      "Lofoten Hiking",
		Location:  "Norway",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip.ID
}

func TestMemberManagementScenario(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	editorUser := createUser(t, env, "editor@example.com")
	tripID := createTrip(t, env, owner)

	// Owner adds an editor by email.
	member, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "editor@example.com",
		Role:  "EDITOR",
	})
	if err != nil {
		t.Fatalf("owner failed to add editor: %v", err)
	}
	if member.Role != string(access.RoleEditor) {
		t.Fatalf("expected EDITOR role, got %s", member.Role)
	}
	if member.UserID != editorUser.String() {
		t.Fatalf("unexpected member user id %s", member.UserID)
	}

	// The editor cannot manage members at all.
	_, err = env.svc.Add(context.Background(), editorUser, tripID, domain.AddMemberRequest{
		Email: "owner@example.com",
		Role:  "VIEWER",
	})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for editor managing members, got %v", err)
	}

	// Owner promotes the editor to co-owner.
	promoted, err := env.svc.UpdateRole(context.Background(), owner, tripID, member.ID, "CO_OWNER")
	if err != nil {
		t.Fatalf("owner failed to promote editor: %v", err)
	}
	if promoted.Role != string(access.RoleCoOwner) {
		t.Fatalf("expected CO_OWNER after promotion, got %s", promoted.Role)
	}

	// A co-owner can manage members but cannot hand out their own rank.
	createUser(t, env, "third@example.com")
	_, err = env.svc.Add(context.Background(), editorUser, tripID, domain.AddMemberRequest{
		Email: "third@example.com",
		Role:  "CO_OWNER",
	})
	if err != domain.ErrRoleNotAssignable {
		t.Fatalf("expected ErrRoleNotAssignable for co-owner granting CO_OWNER, got %v", err)
	}

	// The owner's row can never be touched, whoever asks.
	members, err := env.svc.List(context.Background(), owner, tripID)
	if err != nil {
		t.Fatalf("failed to list members: %v", err)
	}
	var ownerMemberID string
	for _, m := range members {
		if m.Role == string(access.RoleOwner) {
			ownerMemberID = m.ID
		}
	}
	if ownerMemberID == "" {
		t.Fatal("expected owner mirror row in listing")
	}
	if err := env.svc.Remove(context.Background(), editorUser, tripID, ownerMemberID); err != domain.ErrOwnerProtected {
		t.Fatalf("expected ErrOwnerProtected removing owner row, got %v", err)
	}
	if _, err := env.svc.UpdateRole(context.Background(), editorUser, tripID, ownerMemberID, "VIEWER"); err != domain.ErrOwnerProtected {
		t.Fatalf("expected ErrOwnerProtected demoting owner row, got %v", err)
	}
}

func TestAddMemberUpsertsRole(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	createUser(t, env, "friend@example.com")
	tripID := createTrip(t, env, owner)

	first, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "friend@example.com",
		Role:  "VIEWER",
	})
	if err != nil {
		t.Fatalf("failed to add viewer: %v", err)
	}

	second, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "friend@example.com",
		Role:  "EDITOR",
	})
	if err != nil {
		t.Fatalf("re-adding member should upsert, got %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same membership row, got %s and %s", first.ID, second.ID)
	}
	if second.Role != string(access.RoleEditor) {
		t.Fatalf("expected role upgraded to EDITOR, got %s", second.Role)
	}
}

func TestAddMemberUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	tripID := createTrip(t, env, owner)

	_, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "nobody@example.com",
		Role:  "VIEWER",
	})
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAddCreatorIsOwnerProtected(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	coOwnerUser := createUser(t, env, "co@example.com")
	tripID := createTrip(t, env, owner)

	if _, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "co@example.com",
		Role:  "CO_OWNER",
	}); err != nil {
		t.Fatalf("failed to add co-owner: %v", err)
	}

	// Even a co-owner cannot re-role the creator through Add.
	_, err := env.svc.Add(context.Background(), coOwnerUser, tripID, domain.AddMemberRequest{
		Email: "owner@example.com",
		Role:  "VIEWER",
	})
	if err != domain.ErrOwnerProtected {
		t.Fatalf("expected ErrOwnerProtected, got %v", err)
	}
}

func TestLeaveTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	editorUser := createUser(t, env, "editor@example.com")
	tripID := createTrip(t, env, owner)

	if _, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "editor@example.com",
		Role:  "EDITOR",
	}); err != nil {
		t.Fatalf("failed to add editor: %v", err)
	}

	if err := env.svc.Leave(context.Background(), owner, tripID); err != domain.ErrOwnerProtected {
		t.Fatalf("expected ErrOwnerProtected when owner leaves, got %v", err)
	}
	if err := env.svc.Leave(context.Background(), editorUser, tripID); err != nil {
		t.Fatalf("editor failed to leave: %v", err)
	}

	// After leaving, the trip is invisible to the former editor.
	if _, err := env.svc.List(context.Background(), editorUser, tripID); err != domain.ErrTripNotFound {
		t.Fatalf("expected ErrTripNotFound after leaving, got %v", err)
	}
}

func TestViewerCannotListMembers(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	viewerUser := createUser(t, env, "viewer@example.com")
	tripID := createTrip(t, env, owner)

	if _, err := env.svc.Add(context.Background(), owner, tripID, domain.AddMemberRequest{
		Email: "viewer@example.com",
		Role:  "VIEWER",
	}); err != nil {
		t.Fatalf("failed to add viewer: %v", err)
	}

	if _, err := env.svc.List(context.Background(), viewerUser, tripID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for viewer listing members, got %v", err)
	}
}

func TestInviteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	invitee := createUser(t, env, "invitee@example.com")
	outsider := createUser(t, env, "outsider@example.com")
	tripID := createTrip(t, env, owner)

	invite, err := env.svc.Invite(context.Background(), owner, tripID, domain.InviteRequest{
		Email: "invitee@example.com",
		Role:  "EDITOR",
	})
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}
	if invite.Status != domain.InviteStatusPending {
		t.Fatalf("expected PENDING invite, got %s", invite.Status)
	}
	if invite.Code == "" {
		t.Fatal("expected invite code")
	}

	// Only the invited email can redeem the code.
	if _, err := env.svc.AcceptInvite(context.Background(), outsider, invite.Code); err != domain.ErrInviteNotFound {
		t.Fatalf("expected ErrInviteNotFound for wrong user, got %v", err)
	}

	member, err := env.svc.AcceptInvite(context.Background(), invitee, invite.Code)
	if err != nil {
		t.Fatalf("failed to accept invite: %v", err)
	}
	if member.Role != string(access.RoleEditor) {
		t.Fatalf("expected EDITOR after accept, got %s", member.Role)
	}

	// Accepting twice is a no-op.
	again, err := env.svc.AcceptInvite(context.Background(), invitee, invite.Code)
	if err != nil {
		t.Fatalf("second accept should be a no-op, got %v", err)
	}
	if again.ID != member.ID {
		t.Fatalf("expected same membership row on repeat accept, got %s and %s", member.ID, again.ID)
	}

	invites, err := env.svc.ListInvites(context.Background(), owner, tripID)
	if err != nil {
		t.Fatalf("failed to list invites: %v", err)
	}
	if len(invites) != 1 || invites[0].Status != domain.InviteStatusAccepted {
		t.Fatalf("expected one ACCEPTED invite, got %+v", invites)
	}
}

func TestRevokedInviteCannotBeAccepted(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env, "owner@example.com")
	invitee := createUser(t, env, "invitee@example.com")
	tripID := createTrip(t, env, owner)

	invite, err := env.svc.Invite(context.Background(), owner, tripID, domain.InviteRequest{
		Email: "invitee@example.com",
		Role:  "VIEWER",
	})
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}

	if err := env.svc.RevokeInvite(context.Background(), owner, tripID, invite.ID); err != nil {
		t.Fatalf("failed to revoke invite: %v", err)
	}
	// Revoking again is idempotent.
	if err := env.svc.RevokeInvite(context.Background(), owner, tripID, invite.ID); err != nil {
		t.Fatalf("repeat revoke should be a no-op, got %v", err)
	}

	if _, err := env.svc.AcceptInvite(context.Background(), invitee, invite.Code); err != domain.ErrInviteNotFound {
		t.Fatalf("expected ErrInviteNotFound for revoked invite, got %v", err)
	}
}
