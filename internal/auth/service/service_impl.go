package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/password"
	"github.com/wayfarerhq/wayfarer/internal/config"
	"github.com/wayfarerhq/wayfarer/pkg/db"
	"go.uber.org/zap"
)

type service struct {
	log        *zap.Logger
	repo       domain.Repository
	genID      *snowflake.Node
	sessionTTL time.Duration
}

func NewService(log *zap.Logger, cfg config.Config, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		log:        log.Named("auth.service"),
		repo:       repo,
		genID:      genID,
		sessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
	}
}

func (s *service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if len(req.Password) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	existing, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Two concurrent signups can both pass the existence check; the
		// unique index on email decides.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	rawToken := uuid.NewString()
	now := time.Now().UTC()
	expiresAt := now.Add(s.sessionTTL)
	session := domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, domain.ErrInvalidSession
	}
	session, err := s.repo.SessionByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrInvalidSession
	}
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.repo.TouchSession(ctx, session.ID); err != nil {
		s.log.Warn("failed to touch session", zap.Error(err))
	}
	return session, nil
}

func (s *service) Logout(ctx context.Context, rawToken string) error {
	session, err := s.repo.SessionByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.repo.RevokeSession(ctx, session.ID)
}

func (s *service) UserByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
