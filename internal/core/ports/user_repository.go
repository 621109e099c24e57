package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// UserRepository defines the interface for account persistence.
// Emails are passed already normalised.
type UserRepository interface {
	// Create returns domain.ErrEmailTaken when the unique email index rejects the row.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
