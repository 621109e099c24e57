package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authorizationPayload struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ExpiresIn int64  `json:"expires_in"`
}

type authResponse struct {
	Status        string                `json:"status"`
	Message       string                `json:"message,omitempty"`
	User          *domain.User          `json:"user,omitempty"`
	Authorization *authorizationPayload `json:"authorization,omitempty"`
}

func toAuthorization(t *ports.IssuedToken) *authorizationPayload {
	if t == nil {
		return nil
	}
	return &authorizationPayload{Token: t.Token, Type: t.Type, ExpiresIn: t.ExpiresIn}
}

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      422   {object}  validationErrorResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues(metrics.EventRegister, metrics.ResultFailure).Inc()
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues(metrics.EventRegister, metrics.ResultSuccess).Inc()

	return c.JSON(http.StatusCreated, authResponse{
		Status:        statusSuccess,
		Message:       "User created successfully",
		User:          res.User,
		Authorization: toAuthorization(res.Token),
	})
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  validationErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues(metrics.EventLogin, metrics.ResultFailure).Inc()
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues(metrics.EventLogin, metrics.ResultSuccess).Inc()

	return c.JSON(http.StatusOK, authResponse{
		Status:        statusSuccess,
		Message:       "Login successful",
		User:          res.User,
		Authorization: toAuthorization(res.Token),
	})
}

// Me returns the authenticated account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Status: statusSuccess, User: user})
}

// Logout revokes the token the request was made with.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := callerToken(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		metrics.AuthEventsTotal.WithLabelValues(metrics.EventLogout, metrics.ResultFailure).Inc()
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues(metrics.EventLogout, metrics.ResultSuccess).Inc()
	metrics.TokensRevokedTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Status: statusSuccess, Message: "Successfully logged out"})
}

// Refresh swaps the current token for a new one and revokes the old.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, err := callerToken(c)
	if err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		metrics.AuthEventsTotal.WithLabelValues(metrics.EventRefresh, metrics.ResultFailure).Inc()
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues(metrics.EventRefresh, metrics.ResultSuccess).Inc()
	metrics.TokensRevokedTotal.Inc()

	return c.JSON(http.StatusOK, authResponse{
		Status:        statusSuccess,
		User:          res.User,
		Authorization: toAuthorization(res.Token),
	})
}
