package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	CreateUser(ctx context.Context, user User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id snowflake.ID) (*User, error)
	CreateSession(ctx context.Context, session Session) error
	SessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	RevokeSession(ctx context.Context, id snowflake.ID) error
	TouchSession(ctx context.Context, id snowflake.ID) error
}
