package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/domain"
)

// callerID extracts the identity injected by the Auth middleware. Its absence
// means the route was wired without the middleware and is treated as an
// unauthenticated request.
func callerID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// callerToken returns the raw bearer token the request was authenticated with.
func callerToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.ContextToken).(string)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}
