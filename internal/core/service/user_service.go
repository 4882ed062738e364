package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
	"github.com/catregistry/cat-api/internal/pkg/metrics"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

const msgUserNotFound = "User not found"

type UserService struct {
	repo   ports.UserRepository
	cache  ports.Cache
	logger zerolog.Logger
}

// NewUserService wires the account use cases. cache may be nil.
func NewUserService(repo ports.UserRepository, cache ports.Cache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: orNoop(cache), logger: logger}
}

// CreateUser registers an account with the default role. Duplicate user
// names or emails surface as a creation error wrapping domain.ErrUserExists.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordCost)
	if err != nil {
		return nil, domain.NewError(domain.KindCreation, "Error creating user", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		UserName:     input.UserName,
		Email:        input.Email,
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.logger.Info().Str("user_name", input.UserName).Msg("duplicate registration rejected")
		} else {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, domain.NewError(domain.KindCreation, "Error creating user", err)
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user created")
	return withoutHash(created), nil
}

// GetUser never returns the password hash.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return readThrough(ctx, s.cache, s.logger, "user", userKey(id), func() (*domain.User, error) {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, s.lookupError(err, domain.KindRead, "Error getting user")
		}
		return withoutHash(user), nil
	})
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindRead, "Error getting user list", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// UpdateCurrentUser changes the caller's own record. A new password is hashed
// before it reaches the repository.
func (s *UserService) UpdateCurrentUser(ctx context.Context, actor domain.Identity, input ports.UpdateUserInput) (*domain.User, error) {
	if actor.Anonymous() {
		return nil, domain.NewError(domain.KindAuthentication, "Not authenticated", nil)
	}

	patch := domain.UserPatch{UserName: input.UserName, Email: input.Email}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), PasswordCost)
		if err != nil {
			return nil, domain.NewError(domain.KindUpdate, "Error updating user", err)
		}
		h := string(hash)
		patch.PasswordHash = &h
	}

	updated, err := s.repo.Update(ctx, actor.ID, patch)
	if err != nil {
		return nil, s.lookupError(err, domain.KindUpdate, "Error updating user")
	}
	invalidate(ctx, s.cache, s.logger, userKey(actor.ID))

	s.logger.Info().Str("user_id", actor.ID).Msg("user updated")
	return withoutHash(updated), nil
}

// DeleteCurrentUser removes the caller's own record and returns it.
func (s *UserService) DeleteCurrentUser(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	if actor.Anonymous() {
		return nil, domain.NewError(domain.KindAuthentication, "Not authenticated", nil)
	}

	deleted, err := s.repo.Delete(ctx, actor.ID)
	if err != nil {
		return nil, s.lookupError(err, domain.KindDeletion, "Error deleting user")
	}
	invalidate(ctx, s.cache, s.logger, userKey(actor.ID))

	s.logger.Info().Str("user_id", actor.ID).Msg("user deleted")
	return withoutHash(deleted), nil
}

func (s *UserService) CheckToken(actor domain.Identity) domain.Identity {
	return actor
}

func (s *UserService) lookupError(err error, kind domain.Kind, message string) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NotFoundError(msgUserNotFound, err)
	}
	return domain.NewError(kind, message, err)
}

func withoutHash(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
