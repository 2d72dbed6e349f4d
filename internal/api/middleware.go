package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"startup-onboarding/internal/common/auth"
	"startup-onboarding/internal/common/errors"
)

const userContextKey = "authenticated-user"

// UserResolver turns a bearer token into an identity.
type UserResolver interface {
	ResolveUser(ctx context.Context, accessToken string) (*auth.User, error)
}

// requireUser authenticates the request via the Authorization header
// and stashes the resolved user in the echo context.
func requireUser(resolver UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			user, err := resolver.ResolveUser(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody(errors.UserMessage(err)))
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func currentUser(c echo.Context) *auth.User {
	user, _ := c.Get(userContextKey).(*auth.User)
	return user
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
