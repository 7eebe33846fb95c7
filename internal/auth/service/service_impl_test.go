package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/repository"
	"github.com/wayfarerhq/wayfarer/internal/config"
	"github.com/wayfarerhq/wayfarer/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	cfg := config.Config{SessionTTLHours: 24}
	return NewService(zap.NewNop(), cfg, repository.NewRepository(dbConn), node)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected session token")
	}

	session, err := svc.Authenticate(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session for user %s, got %s", user.ID, session.UserID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong-password",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "carol@example.com",
		Name:     "Carol",
		Password: "strong-password",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "carol@example.com",
		Name:     "Carol Again",
		Password: "strong-password",
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "dave@example.com",
		Name:     "Dave",
		Password: "strong-password",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "dave@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), result.RawToken); err != domain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked after logout, got %v", err)
	}
}
