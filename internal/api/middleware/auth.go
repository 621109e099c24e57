package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextToken  = "token"
)

// Auth verifies the bearer token and injects the caller's id and raw token
// into the echo context. Every failure is domain.ErrUnauthenticated so the
// error handler renders one uniform 401 body.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrUnauthenticated
			}

			claims, err := tokens.Verify(c.Request().Context(), raw)
			if err != nil {
				return domain.ErrUnauthenticated
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextToken, raw)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
