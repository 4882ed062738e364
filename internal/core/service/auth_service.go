package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

const msgBadCredentials = "Invalid username or password"

// AuthService implements login and token issuance.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login checks the email/password pair and returns a signed token. Unknown
// email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.NewError(domain.KindAuthentication, msgBadCredentials, domain.ErrInvalidCredentials)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.NewError(domain.KindAuthentication, msgBadCredentials, domain.ErrInvalidCredentials)
		}
		return "", nil, domain.NewError(domain.KindRead, "Error logging in", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.NewError(domain.KindAuthentication, msgBadCredentials, domain.ErrInvalidCredentials)
	}

	token, err := s.IssueToken(user.Identity())
	if err != nil {
		return "", nil, domain.NewError(domain.KindRead, "Error logging in", err)
	}

	return token, withoutHash(user), nil
}

// IssueToken signs an HS256 token carrying the identity claims read back by
// the auth middleware.
func (s *AuthService) IssueToken(id domain.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       id.ID,
		"user_name": id.UserName,
		"email":     id.Email,
		"role":      string(id.Role),
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
