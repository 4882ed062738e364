package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
