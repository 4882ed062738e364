package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
)

// currentIdentity returns the caller attached by the Auth middleware. An
// anonymous identity means the route was mounted without Auth.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	id := middleware.Identity(c)
	if id.Anonymous() {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
