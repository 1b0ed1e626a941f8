package middleware

import (
	"net/http"
	"strings"

	"github.com/OmarEmad62/ATC-01111780082/internal/auth"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID uuid.UUID
	Role   models.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Auth requires a valid bearer token.
func Auth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			raw = strings.TrimSpace(raw)
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
			}

			SetIdentity(c, Identity{UserID: userID, Role: claims.Role})
			return next(c)
		}
	}
}

// AdminOnly must run after Auth.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentUser(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
		}
		if !id.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Not authorized as an admin")
		}
		return next(c)
	}
}

func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

func CurrentUser(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
