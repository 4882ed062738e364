package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
)

func TestRequireRole_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetIdentity(c, domain.Identity{ID: "a1", Role: domain.RoleAdmin})

	called := false
	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	cases := map[string]domain.Identity{
		"plain user": {ID: "u1", Role: domain.RoleUser},
		"anonymous":  {},
	}

	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if !id.Anonymous() {
				SetIdentity(c, id)
			}

			handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			err := handler(c)
			if !domain.IsKind(err, domain.KindAuthorization) {
				t.Fatalf("expected authorization error, got %v", err)
			}
			var de *domain.Error
			if !errors.As(err, &de) || de.Message != "Not admin" || de.Status() != http.StatusForbidden {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
