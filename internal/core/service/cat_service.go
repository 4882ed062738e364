package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
	"github.com/catregistry/cat-api/internal/pkg/metrics"
)

const (
	msgCatNotFound   = "Cat not found"
	msgNotAuthorized = "Not authorized"
	msgNotAdmin      = "Not admin"
)

type CatService struct {
	repo   ports.CatRepository
	images ports.ImageStore
	cache  ports.Cache
	logger zerolog.Logger
}

// NewCatService wires the cat use cases. images and cache may be nil.
func NewCatService(repo ports.CatRepository, images ports.ImageStore, cache ports.Cache, logger zerolog.Logger) *CatService {
	return &CatService{repo: repo, images: images, cache: orNoop(cache), logger: logger}
}

// CreateCat persists a new cat owned by input.Owner.
func (s *CatService) CreateCat(ctx context.Context, input ports.CreateCatInput) (*domain.Cat, error) {
	if input.Owner.Anonymous() {
		return nil, domain.NewError(domain.KindAuthentication, "Not authenticated", nil)
	}
	if input.Filename == "" {
		return nil, domain.ValidationError("image is required: cat")
	}

	cat := &domain.Cat{
		Name:      input.Name,
		Weight:    input.Weight,
		Filename:  input.Filename,
		Birthdate: input.Birthdate.UTC(),
		Location:  input.Location,
		Owner: domain.Owner{
			ID:       input.Owner.ID,
			UserName: input.Owner.UserName,
			Email:    input.Owner.Email,
		},
	}

	created, err := s.repo.Create(ctx, cat)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", input.Owner.ID).Msg("failed to create cat")
		return nil, domain.NewError(domain.KindCreation, "Error creating cat", err)
	}

	metrics.CatsCreatedTotal.Inc()
	s.logger.Info().Str("cat_id", created.ID).Str("owner", input.Owner.ID).Msg("cat created")
	return created, nil
}

func (s *CatService) ListCats(ctx context.Context) ([]domain.Cat, error) {
	cats, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindRead, "Error getting cats", err)
	}
	return cats, nil
}

func (s *CatService) ListCatsByOwner(ctx context.Context, actor domain.Identity) ([]domain.Cat, error) {
	if actor.Anonymous() {
		return nil, domain.NewError(domain.KindAuthentication, "Not authenticated", nil)
	}
	cats, err := s.repo.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, domain.NewError(domain.KindRead, "Error getting cats", err)
	}
	return cats, nil
}

func (s *CatService) ListCatsInBox(ctx context.Context, box domain.BoundingBox) ([]domain.Cat, error) {
	cats, err := s.repo.FindWithin(ctx, box)
	if err != nil {
		return nil, domain.NewError(domain.KindBoundingBox, "Error cat get bounding box", err)
	}
	return cats, nil
}

// GetCat returns a single cat, served from the cache when present.
func (s *CatService) GetCat(ctx context.Context, id string) (*domain.Cat, error) {
	return readThrough(ctx, s.cache, s.logger, "cat", catKey(id), func() (*domain.Cat, error) {
		cat, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrCatNotFound) {
				return nil, domain.NotFoundError(msgCatNotFound, err)
			}
			return nil, domain.NewError(domain.KindRead, "Error getting cat", err)
		}
		return cat, nil
	})
}

// UpdateCat loads the cat and checks ownership before anything is written.
func (s *CatService) UpdateCat(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	patch.OwnerID = nil

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, domain.KindUpdate, "Error updating cat")
	}
	if err := s.authorize(actor, "cat_update", msgNotAuthorized, domain.OwnedBy(existing.Owner.ID)); err != nil {
		return nil, err
	}

	return s.applyUpdate(ctx, id, patch)
}

// UpdateCatAsAdmin skips the ownership check but requires the admin role,
// and may move the cat to another owner.
func (s *CatService) UpdateCatAsAdmin(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	if err := s.authorize(actor, "cat_update_admin", msgNotAdmin, domain.HasRole(domain.RoleAdmin)); err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, id, patch)
}

func (s *CatService) DeleteCat(ctx context.Context, actor domain.Identity, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(err, domain.KindDeletion, "Error deleting cat")
	}
	if err := s.authorize(actor, "cat_delete", msgNotAuthorized, domain.OwnedBy(existing.Owner.ID)); err != nil {
		return err
	}
	return s.remove(ctx, existing)
}

func (s *CatService) DeleteCatAsAdmin(ctx context.Context, actor domain.Identity, id string) error {
	if err := s.authorize(actor, "cat_delete_admin", msgNotAdmin, domain.HasRole(domain.RoleAdmin)); err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(err, domain.KindDeletion, "Error deleting cat")
	}
	return s.remove(ctx, existing)
}

func (s *CatService) applyUpdate(ctx context.Context, id string, patch domain.CatPatch) (*domain.Cat, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.lookupError(err, domain.KindUpdate, "Error updating cat")
	}
	invalidate(ctx, s.cache, s.logger, catKey(id))
	s.logger.Info().Str("cat_id", id).Msg("cat updated")
	return updated, nil
}

func (s *CatService) remove(ctx context.Context, cat *domain.Cat) error {
	if err := s.repo.Delete(ctx, cat.ID); err != nil {
		return s.lookupError(err, domain.KindDeletion, "Error deleting cat")
	}
	invalidate(ctx, s.cache, s.logger, catKey(cat.ID))

	// The record is gone; a leftover image is only logged.
	if s.images != nil && cat.Filename != "" {
		if err := s.images.Delete(ctx, cat.Filename); err != nil {
			s.logger.Warn().Err(err).Str("filename", cat.Filename).Msg("failed to delete cat image")
		}
	}

	s.logger.Info().Str("cat_id", cat.ID).Msg("cat deleted")
	return nil
}

func (s *CatService) authorize(actor domain.Identity, operation, message string, rules ...domain.Rule) error {
	if err := domain.Authorize(actor, message, rules...); err != nil {
		metrics.AuthorizationDeniedTotal.WithLabelValues(operation).Inc()
		s.logger.Warn().Str("operation", operation).Str("actor", actor.ID).Msg("authorization denied")
		return err
	}
	return nil
}

// lookupError maps a repository error to 404 when the cat is missing and to
// kind otherwise.
func (s *CatService) lookupError(err error, kind domain.Kind, message string) error {
	if errors.Is(err, domain.ErrCatNotFound) {
		return domain.NotFoundError(msgCatNotFound, err)
	}
	return domain.NewError(kind, message, err)
}
