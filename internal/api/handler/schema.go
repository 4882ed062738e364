package handler

import (
	"time"

	"github.com/catregistry/cat-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// errorResponse is the envelope the central error handler writes for 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message" example:"Cat not found"`
}

type messageResponse struct {
	Message string `json:"message" example:"Cat deleted"`
	Data    any    `json:"data,omitempty"`
}

// --- Request types ---

type idParam struct {
	ID string `param:"id" validate:"required,mongodb"`
}

type pointJSON struct {
	Type        string    `json:"type"        validate:"omitempty,eq=Point" example:"Point"`
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
}

// catCreateRequest is the text part of the multipart create form. The image
// and coordinates are consumed by middleware; a client "filename" is never read.
// Weight stays a string so a non-numeric value is reported against its field.
type catCreateRequest struct {
	Name      string `form:"cat_name"  validate:"required,min=2"`
	Weight    string `form:"weight"    validate:"required,numeric,positive"`
	Birthdate string `form:"birthdate" validate:"required,datetime=2006-01-02"`
}

type catUpdateRequest struct {
	ID        string     `param:"id"        json:"-"  validate:"required,mongodb"`
	Name      *string    `json:"cat_name"  validate:"omitempty,min=2"`
	Weight    *float64   `json:"weight"    validate:"omitempty,gt=0"`
	Birthdate *string    `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Location  *pointJSON `json:"location"`
}

// catAdminUpdateRequest adds owner reassignment to catUpdateRequest.
type catAdminUpdateRequest struct {
	ID        string     `param:"id"        json:"-"  validate:"required,mongodb"`
	Name      *string    `json:"cat_name"  validate:"omitempty,min=2"`
	Weight    *float64   `json:"weight"    validate:"omitempty,gt=0"`
	Birthdate *string    `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Location  *pointJSON `json:"location"`
	Owner     *string    `json:"owner"     validate:"omitempty,mongodb"`
}

type userCreateRequest struct {
	UserName string `json:"user_name" validate:"required,min=3"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=5"`
}

type userUpdateRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password *string `json:"password"  validate:"omitempty,min=5"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

type ownerResponse struct {
	ID       string `json:"_id"`
	UserName string `json:"user_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// catResponse is the seven-field cat projection.
type catResponse struct {
	ID        string        `json:"_id"       example:"665f1c2e9b1e8a3d4c2b1a01"`
	Name      string        `json:"cat_name"  example:"Tom"`
	Weight    float64       `json:"weight"    example:"4.2"`
	Filename  string        `json:"filename"  example:"3f1c2a9e-7c1d-4a55-9d1e-0f1b2c3d4e5f.jpg"`
	Birthdate time.Time     `json:"birthdate"`
	Location  pointJSON     `json:"location"`
	Owner     ownerResponse `json:"owner"`
}

type userResponse struct {
	UserName string `json:"user_name" example:"alice"`
	Email    string `json:"email"     example:"alice@example.com"`
	ID       string `json:"_id"       example:"665f1c2e9b1e8a3d4c2b1a00"`
}

type userSummary struct {
	UserName string `json:"user_name" example:"alice"`
	Email    string `json:"email"     example:"alice@example.com"`
}

type loginResponse struct {
	Message string       `json:"message" example:"Login successful"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// --- Mapping ---

func toPointJSON(p domain.Point) pointJSON {
	return pointJSON{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}}
}

func toCatResponse(cat *domain.Cat) catResponse {
	return catResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Weight:    cat.Weight,
		Filename:  cat.Filename,
		Birthdate: cat.Birthdate.UTC(),
		Location:  toPointJSON(cat.Location),
		Owner: ownerResponse{
			ID:       cat.Owner.ID,
			UserName: cat.Owner.UserName,
			Email:    cat.Owner.Email,
		},
	}
}

func toCatList(cats []domain.Cat) []catResponse {
	out := make([]catResponse, 0, len(cats))
	for i := range cats {
		out = append(out, toCatResponse(&cats[i]))
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{UserName: u.UserName, Email: u.Email, ID: u.ID}
}

func toUserSummary(u *domain.User) userSummary {
	return userSummary{UserName: u.UserName, Email: u.Email}
}
