package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

const (
	catID   = "665f1c2e9b1e8a3d4c2b1a01"
	ownerID = "665f1c2e9b1e8a3d4c2b1a00"
)

var alice = domain.Identity{ID: ownerID, UserName: "alice", Email: "alice@example.com", Role: domain.RoleUser}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a context for method/target with an optional JSON
// body and an optional authenticated caller.
func newJSONContext(e *echo.Echo, method, target, body string, actor *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		middleware.SetIdentity(c, *actor)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func tomCat() *domain.Cat {
	return &domain.Cat{
		ID:       catID,
		Name:     "Tom",
		Weight:   4.2,
		Filename: "3f1c2a9e.png",
		Location: domain.Point{Lon: 24.94, Lat: 60.17},
		Owner:    domain.Owner{ID: ownerID, UserName: "alice", Email: "alice@example.com"},
	}
}

type stubCatService struct {
	ports.CatService

	calls   int
	created ports.CreateCatInput
	actor   domain.Identity
	id      string
	patch   domain.CatPatch
	box     domain.BoundingBox
	cat     *domain.Cat
	err     error
}

func (s *stubCatService) CreateCat(_ context.Context, in ports.CreateCatInput) (*domain.Cat, error) {
	s.calls++
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Cat{
		ID:        catID,
		Name:      in.Name,
		Weight:    in.Weight,
		Filename:  in.Filename,
		Birthdate: in.Birthdate,
		Location:  in.Location,
		Owner:     domain.Owner{ID: in.Owner.ID, UserName: in.Owner.UserName, Email: in.Owner.Email},
	}, nil
}

func (s *stubCatService) ListCats(context.Context) ([]domain.Cat, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Cat{*s.cat}, nil
}

func (s *stubCatService) ListCatsInBox(_ context.Context, box domain.BoundingBox) ([]domain.Cat, error) {
	s.calls++
	s.box = box
	return []domain.Cat{}, s.err
}

func (s *stubCatService) GetCat(_ context.Context, id string) (*domain.Cat, error) {
	s.calls++
	s.id = id
	if s.err != nil {
		return nil, s.err
	}
	return s.cat, nil
}

func (s *stubCatService) UpdateCat(_ context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	s.calls++
	s.actor, s.id, s.patch = actor, id, patch
	if s.err != nil {
		return nil, s.err
	}
	return s.cat, nil
}

func (s *stubCatService) UpdateCatAsAdmin(_ context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	return s.UpdateCat(context.Background(), actor, id, patch)
}

func (s *stubCatService) DeleteCat(_ context.Context, actor domain.Identity, id string) error {
	s.calls++
	s.actor, s.id = actor, id
	return s.err
}

type stubUserService struct {
	ports.UserService

	calls   int
	created ports.CreateUserInput
	user    *domain.User
	err     error
}

func (s *stubUserService) CreateUser(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	s.calls++
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: ownerID, UserName: in.UserName, Email: in.Email, Role: domain.RoleUser}, nil
}

func (s *stubUserService) GetUser(context.Context, string) (*domain.User, error) {
	s.calls++
	return s.user, s.err
}

func (s *stubUserService) UpdateCurrentUser(context.Context, domain.Identity, ports.UpdateUserInput) (*domain.User, error) {
	s.calls++
	return s.user, s.err
}

func (s *stubUserService) CheckToken(actor domain.Identity) domain.Identity {
	s.calls++
	return actor
}

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.User, error)
	calls   int
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	s.calls++
	return s.loginFn(ctx, email, password)
}

// memoryImages is an in-memory ImageStore for the upload middleware.
type memoryImages struct {
	saved   map[string][]byte
	deleted []string
}

func (m *memoryImages) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[name] = b
	return nil
}

func (m *memoryImages) Delete(_ context.Context, name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}
