package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
)

func TestUserHandler_Create(t *testing.T) {
	e := newTestEcho()
	svc := &stubUserService{}

	body := `{"user_name":"alice","email":"alice@example.com","password":"s3cret","role":"admin"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/users", body, nil)
	if err := NewUserHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.created.Password != "s3cret" || svc.created.UserName != "alice" {
		t.Fatalf("unexpected input %+v", svc.created)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "s3cret") {
		t.Fatalf("response leaks password: %s", rec.Body.String())
	}

	var resp struct {
		Message string      `json:"message"`
		Data    userSummary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User created" || resp.Data.Email != "alice@example.com" {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestUserHandler_Create_ValidationGate(t *testing.T) {
	e := newTestEcho()
	svc := &stubUserService{}

	c, _ := newJSONContext(e, http.MethodPost, "/api/v1/users", `{"user_name":"al","email":"nope","password":"abc"}`, nil)
	err := NewUserHandler(svc).Create(c)

	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "Must be at least 3 characters: user_name, Invalid email: email, Must be at least 5 characters: password"
	if de.Message != want {
		t.Fatalf("message = %q, want %q", de.Message, want)
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times", svc.calls)
	}
}

func TestUserHandler_Get_NoPassword(t *testing.T) {
	e := newTestEcho()
	svc := &stubUserService{user: &domain.User{ID: ownerID, UserName: "alice", Email: "alice@example.com"}}

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/users/"+ownerID, "", nil)
	if err := NewUserHandler(svc).Get(withID(c, ownerID)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 3 || resp["_id"] != ownerID || resp["user_name"] != "alice" {
		t.Fatalf("unexpected payload %v", resp)
	}
}

func TestUserHandler_UpdateCurrent_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	svc := &stubUserService{}

	c, _ := newJSONContext(e, http.MethodPut, "/api/v1/users", `{"user_name":"alicia"}`, nil)
	err := NewUserHandler(svc).UpdateCurrent(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times", svc.calls)
	}
}

func TestUserHandler_CheckToken(t *testing.T) {
	e := newTestEcho()
	svc := &stubUserService{}

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/users/token", "", &alice)
	if err := NewUserHandler(svc).CheckToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != (userResponse{UserName: "alice", Email: "alice@example.com", ID: ownerID}) {
		t.Fatalf("unexpected payload %+v", resp)
	}
}
