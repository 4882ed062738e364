package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create returns domain.ErrUserExists on a user_name or email collision.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the account and returns it as it was before deletion.
	Delete(ctx context.Context, id string) (*domain.User, error)
}
