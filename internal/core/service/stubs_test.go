package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubCatRepo struct {
	cats   map[string]domain.Cat
	nextID int
	calls  int // every method call
	writes int // Create, Update, Delete
	err    error
}

func newStubCatRepo(cats ...domain.Cat) *stubCatRepo {
	r := &stubCatRepo{cats: make(map[string]domain.Cat)}
	for _, c := range cats {
		r.cats[c.ID] = c
	}
	return r
}

func (r *stubCatRepo) sorted(keep func(domain.Cat) bool) []domain.Cat {
	out := make([]domain.Cat, 0, len(r.cats))
	for _, c := range r.cats {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubCatRepo) Create(_ context.Context, cat *domain.Cat) (*domain.Cat, error) {
	r.calls++
	r.writes++
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	clone := *cat
	clone.ID = fmt.Sprintf("cat%d", r.nextID)
	r.cats[clone.ID] = clone
	return &clone, nil
}

func (r *stubCatRepo) FindAll(_ context.Context) ([]domain.Cat, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(domain.Cat) bool { return true }), nil
}

func (r *stubCatRepo) FindByOwner(_ context.Context, ownerID string) ([]domain.Cat, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(c domain.Cat) bool { return c.Owner.ID == ownerID }), nil
}

func (r *stubCatRepo) FindWithin(_ context.Context, box domain.BoundingBox) ([]domain.Cat, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(c domain.Cat) bool { return box.Contains(c.Location) }), nil
}

func (r *stubCatRepo) FindByID(_ context.Context, id string) (*domain.Cat, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	return &c, nil
}

func (r *stubCatRepo) Update(_ context.Context, id string, p domain.CatPatch) (*domain.Cat, error) {
	r.calls++
	r.writes++
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Weight != nil {
		c.Weight = *p.Weight
	}
	if p.Birthdate != nil {
		c.Birthdate = *p.Birthdate
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.OwnerID != nil {
		c.Owner = domain.Owner{ID: *p.OwnerID}
	}
	r.cats[id] = c
	return &c, nil
}

func (r *stubCatRepo) Delete(_ context.Context, id string) error {
	r.calls++
	r.writes++
	if _, ok := r.cats[id]; !ok {
		return domain.ErrCatNotFound
	}
	delete(r.cats, id)
	return nil
}

type stubUserRepo struct {
	users  map[string]domain.User
	nextID int
	calls  int
	err    error
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.UserName == user.UserName || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("user%d", r.nextID)
	r.users[clone.ID] = clone
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.UserName != nil {
		u.UserName = *p.UserName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	r.users[id] = u
	return &u, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return &u, nil
}

// ---------------------------------------------------------------------------
// Cache and image store stubs
// ---------------------------------------------------------------------------

// memoryCache round-trips values through JSON like the Redis cache does.
type memoryCache struct {
	entries map[string][]byte
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type stubImages struct {
	deleted   []string
	deleteErr error
}

func (s *stubImages) Save(context.Context, string, io.Reader, int64, string) error {
	return errors.New("not used")
}

func (s *stubImages) Delete(_ context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return s.deleteErr
}
