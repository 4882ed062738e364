package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// CreateUserInput is the registration payload. There is no role field:
// new accounts are always domain.RoleUser.
type CreateUserInput struct {
	UserName string
	Email    string
	Password string
}

// UpdateUserInput holds the optional fields of a self-update.
type UpdateUserInput struct {
	UserName *string
	Email    *string
	Password *string
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateCurrentUser(ctx context.Context, actor domain.Identity, input UpdateUserInput) (*domain.User, error)
	DeleteCurrentUser(ctx context.Context, actor domain.Identity) (*domain.User, error)
	// CheckToken echoes the caller's identity without touching the store.
	CheckToken(actor domain.Identity) domain.Identity
}
