package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catregistry/cat-api/internal/core/domain"
)

const testSecret = "test-secret"

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo(storedUser("user-1", "alice", "alice@example.com", "s3cret"))
	svc := NewAuthService(repo, testSecret, time.Hour)

	token, user, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Empty(t, user.PasswordHash)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "alice", claims["user_name"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "user", claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestLogin_BadCredentialsLookAlike(t *testing.T) {
	repo := newStubUserRepo(storedUser("user-1", "alice", "alice@example.com", "s3cret"))
	svc := NewAuthService(repo, testSecret, time.Hour)

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "s3cret"},
		{"wrong password", "alice@example.com", "wrong"},
		{"empty password", "alice@example.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, user, err := svc.Login(context.Background(), tc.email, tc.password)
			requireKind(t, err, domain.KindAuthentication, "Invalid username or password")
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Empty(t, token)
			assert.Nil(t, user)
		})
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("connection reset")
	svc := NewAuthService(repo, testSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	requireKind(t, err, domain.KindRead, "Error logging in")
}

func TestIssueToken_DefaultTTL(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)

	token, err := svc.IssueToken(domain.Identity{ID: "user-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "admin", claims["role"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp.Time, time.Minute)
}
