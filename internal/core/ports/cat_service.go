package ports

import (
	"context"
	"time"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// CreateCatInput carries everything needed to create a cat. Filename and
// Location come from the upload and coordinate middlewares, Owner from the
// auth middleware; none of them are read from the request body.
type CreateCatInput struct {
	Name      string
	Weight    float64
	Birthdate time.Time
	Filename  string
	Location  domain.Point
	Owner     domain.Identity
}

// CatService defines use-case operations for cats.
type CatService interface {
	CreateCat(ctx context.Context, input CreateCatInput) (*domain.Cat, error)
	ListCats(ctx context.Context) ([]domain.Cat, error)
	ListCatsByOwner(ctx context.Context, actor domain.Identity) ([]domain.Cat, error)
	ListCatsInBox(ctx context.Context, box domain.BoundingBox) ([]domain.Cat, error)
	GetCat(ctx context.Context, id string) (*domain.Cat, error)
	// UpdateCat is restricted to the cat's owner. patch.OwnerID is ignored.
	UpdateCat(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)
	// UpdateCatAsAdmin is restricted to admins and may reassign the owner.
	UpdateCatAsAdmin(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)
	DeleteCat(ctx context.Context, actor domain.Identity, id string) error
	DeleteCatAsAdmin(ctx context.Context, actor domain.Identity, id string) error
}
