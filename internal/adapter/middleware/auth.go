package middleware

import (
	"net/http"
	"strings"

	"sinfopers/internal/domain/identity"
	"sinfopers/internal/infrastructure/auth"

	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate requires a bearer token and puts its actor on the context.
func Authenticate(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(actorKey, claims.Actor())
			return next(c)
		}
	}
}

// RequireAction lets the request through only when the actor's role may
// perform action.
func RequireAction(authz identity.Authorizer, action identity.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if !authz.Authorize(actor.Role, action) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "role " + string(actor.Role) + " may not " + string(action)})
			}
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (identity.Actor, bool) {
	a, ok := c.Get(actorKey).(identity.Actor)
	return a, ok
}

// WithActor stores actor on c, for handlers mounted without Authenticate.
func WithActor(c echo.Context, actor identity.Actor) { c.Set(actorKey, actor) }
