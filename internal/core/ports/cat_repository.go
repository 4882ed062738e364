package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// CatRepository defines persistence operations for cats. Every read returns
// cats with the owner reference populated.
type CatRepository interface {
	Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, error)
	FindAll(ctx context.Context) ([]domain.Cat, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Cat, error)
	// FindWithin returns cats whose location lies inside box, edges included.
	FindWithin(ctx context.Context, box domain.BoundingBox) ([]domain.Cat, error)
	// FindByID returns domain.ErrCatNotFound when no cat has the id.
	FindByID(ctx context.Context, id string) (*domain.Cat, error)
	// Update applies patch and returns the updated cat, or domain.ErrCatNotFound.
	Update(ctx context.Context, id string, patch domain.CatPatch) (*domain.Cat, error)
	// Delete removes the cat, or returns domain.ErrCatNotFound.
	Delete(ctx context.Context, id string) error
}
