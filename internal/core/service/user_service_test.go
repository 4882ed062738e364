package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

func storedUser(id, name, email, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return domain.User{ID: id, UserName: name, Email: email, Role: domain.RoleUser, PasswordHash: string(hash)}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, zerolog.Nop())

	user, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, domain.RoleUser, user.Role)

	stored := repo.users[user.ID]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))

	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo := newStubUserRepo(storedUser("user-1", "alice", "alice@example.com", "pw"))
	svc := NewUserService(repo, nil, zerolog.Nop())

	for name, input := range map[string]ports.CreateUserInput{
		"same user_name": {UserName: "alice", Email: "other@example.com", Password: "pw"},
		"same email":     {UserName: "alice2", Email: "alice@example.com", Password: "pw"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), input)
			requireKind(t, err, domain.KindCreation, "Error creating user")
			assert.ErrorIs(t, err, domain.ErrUserExists)
		})
	}
	assert.Len(t, repo.users, 1)
}

func TestGetUser(t *testing.T) {
	repo := newStubUserRepo(storedUser("user-1", "alice", "alice@example.com", "pw"))
	cache := newMemoryCache()
	svc := NewUserService(repo, cache, zerolog.Nop())

	user, err := svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.Empty(t, user.PasswordHash)
	assert.NotContains(t, string(cache.entries["user:user-1"]), "$2a$")

	_, err = svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	_, err = svc.GetUser(context.Background(), "nobody")
	requireKind(t, err, domain.KindNotFound, "User not found")
}

func TestListUsers_StripsHashes(t *testing.T) {
	repo := newStubUserRepo(
		storedUser("user-1", "alice", "alice@example.com", "pw"),
		storedUser("user-2", "bob", "bob@example.com", "pw"),
	)
	svc := NewUserService(repo, nil, zerolog.Nop())

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	repo.err = errors.New("down")
	_, err = svc.ListUsers(context.Background())
	requireKind(t, err, domain.KindRead, "Error getting user list")
}

func TestUpdateCurrentUser(t *testing.T) {
	repo := newStubUserRepo(storedUser("user-1", "alice", "alice@example.com", "old-pass"))
	cache := newMemoryCache()
	svc := NewUserService(repo, cache, zerolog.Nop())
	actor := domain.Identity{ID: "user-1", UserName: "alice", Role: domain.RoleUser}

	_, err := svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)

	name, pass := "alicia", "new-pass"
	updated, err := svc.UpdateCurrentUser(context.Background(), actor, ports.UpdateUserInput{UserName: &name, Password: &pass})
	require.NoError(t, err)

	assert.Equal(t, "alicia", updated.UserName)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Empty(t, updated.PasswordHash)
	assert.NotContains(t, cache.entries, "user:user-1")

	stored := repo.users["user-1"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-pass")))
}

func TestUpdateCurrentUser_Failures(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nil, zerolog.Nop())
	name := "x"

	_, err := svc.UpdateCurrentUser(context.Background(), domain.Identity{}, ports.UpdateUserInput{UserName: &name})
	assert.True(t, domain.IsKind(err, domain.KindAuthentication))

	_, err = svc.UpdateCurrentUser(context.Background(), domain.Identity{ID: "gone"}, ports.UpdateUserInput{UserName: &name})
	requireKind(t, err, domain.KindNotFound, "User not found")
}

func TestDeleteCurrentUser(t *testing.T) {
	repo := newStubUserRepo(storedUser("user-1", "alice", "alice@example.com", "pw"))
	svc := NewUserService(repo, nil, zerolog.Nop())
	actor := domain.Identity{ID: "user-1"}

	deleted, err := svc.DeleteCurrentUser(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "alice", deleted.UserName)
	assert.Empty(t, deleted.PasswordHash)
	assert.Empty(t, repo.users)

	_, err = svc.DeleteCurrentUser(context.Background(), actor)
	requireKind(t, err, domain.KindNotFound, "User not found")
}

func TestCheckToken_NoStoreAccess(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nil, zerolog.Nop())
	actor := domain.Identity{ID: "user-1", UserName: "alice", Email: "alice@example.com", Role: domain.RoleAdmin}

	assert.Equal(t, actor, svc.CheckToken(actor))
	assert.Zero(t, repo.calls)
}
