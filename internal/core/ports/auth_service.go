package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// RegisterInput is the DTO for creating an account.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// LoginInput is the DTO for exchanging credentials for a token.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult pairs an account with a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token *IssuedToken
}

// AuthService covers the account lifecycle. Caller identity is always passed
// in explicitly by the transport layer.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Me(ctx context.Context, callerID string) (*domain.User, error)
	Logout(ctx context.Context, callerToken string) error
	Refresh(ctx context.Context, callerToken string) (*AuthResult, error)
}
