package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context, userID snowflake.ID, tripID string) ([]MemberResponse, error)
	Add(ctx context.Context, userID snowflake.ID, tripID string, req AddMemberRequest) (*MemberResponse, error)
	UpdateRole(ctx context.Context, userID snowflake.ID, tripID, memberID, newRole string) (*MemberResponse, error)
	Remove(ctx context.Context, userID snowflake.ID, tripID, memberID string) error
	Leave(ctx context.Context, userID snowflake.ID, tripID string) error

	Invite(ctx context.Context, userID snowflake.ID, tripID string, req InviteRequest) (*InviteResponse, error)
	ListInvites(ctx context.Context, userID snowflake.ID, tripID string) ([]InviteResponse, error)
	AcceptInvite(ctx context.Context, userID snowflake.ID, code string) (*MemberResponse, error)
	RevokeInvite(ctx context.Context, userID snowflake.ID, tripID, inviteID string) error
}

type AddMemberRequest struct {
	Email string
	Role  string
}

type InviteRequest struct {
	Email string
	Role  string
}

type MemberResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type InviteResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Code      string    `json:"code,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidTrip       = errors.New("invalid_trip")
	ErrInvalidMember     = errors.New("invalid_member")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidRole       = errors.New("invalid_role")
	ErrTripNotFound      = errors.New("trip_not_found")
	ErrMemberNotFound    = errors.New("member_not_found")
	ErrUserNotFound      = errors.New("user_not_found")
	ErrInviteNotFound    = errors.New("invite_not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrOwnerProtected    = errors.New("owner_protected")
	ErrRoleNotAssignable = errors.New("role_not_assignable")
)
