package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the registered role of a user.
type Role string

const (
	// RoleWorker marks users who log attendance, receive salary and upload documents.
	RoleWorker Role = "worker"
	// RoleEmployer marks users who log salary payments for workers.
	RoleEmployer Role = "employer"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleEmployer
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByWhatsAppNumber(ctx context.Context, number string) (User, error)
	GetByCardID(ctx context.Context, cardID string) (User, error)
	GetWorkerByCardID(ctx context.Context, cardID string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	LinkCard(ctx context.Context, id uuid.UUID, cardID string, role Role) error
	Count(ctx context.Context) (int64, error)
}

// User represents a messaging-channel identity and its registration state.
// SampattiCardID and Role stay empty until registration completes; both are
// set exactly once and never overwritten.
type User struct {
	ID             uuid.UUID
	WhatsAppNumber string
	SampattiCardID string
	Role           Role
	Language       string
	CreatedAt      time.Time
}

// Registered reports whether the user has completed registration.
func (u User) Registered() bool {
	return u.SampattiCardID != ""
}
