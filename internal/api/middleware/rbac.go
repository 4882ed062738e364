package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/pkg/metrics"
)

// RequireRole lets the request through only when the caller holds one of roles.
// It must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	rules := make([]domain.Rule, 0, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		rules = append(rules, domain.HasRole(r))
		names = append(names, string(r))
	}
	rule := domain.AnyOf(rules...)
	message := "Not " + strings.Join(names, " or ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := domain.Authorize(Identity(c), message, rule); err != nil {
				metrics.AuthorizationDeniedTotal.WithLabelValues("route").Inc()
				return err
			}
			return next(c)
		}
	}
}
