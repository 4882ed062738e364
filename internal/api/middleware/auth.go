package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// Auth validates the bearer JWT and attaches the caller's identity to the context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			id := identityFromClaims(claims)
			if id.Anonymous() {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

func identityFromClaims(claims jwt.MapClaims) domain.Identity {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}

	role := domain.Role(str("role"))
	if role == "" {
		role = domain.RoleUser
	}

	return domain.Identity{
		ID:       str("sub"),
		UserName: str("user_name"),
		Email:    str("email"),
		Role:     role,
	}
}
