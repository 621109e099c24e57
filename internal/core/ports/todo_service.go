package ports

import (
	"context"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// CreateTodoInput carries the fields accepted on create.
type CreateTodoInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date" validate:"omitempty,future"`
}

// UpdateTodoInput is a partial update; nil means "not supplied".
// The due date is intentionally unconstrained here, unlike on create.
type UpdateTodoInput struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
}

// ListTodosInput carries the raw listing parameters. Unrecognised values fall
// back to defaults instead of failing.
type ListTodosInput struct {
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// TodoService defines use-case operations for todos. Every method acts on
// behalf of callerID and only ever touches that caller's rows.
type TodoService interface {
	List(ctx context.Context, callerID string, input ListTodosInput) (*domain.TodoPage, error)
	Create(ctx context.Context, callerID string, input CreateTodoInput) (*domain.Todo, error)
	Get(ctx context.Context, callerID, id string) (*domain.Todo, error)
	Update(ctx context.Context, callerID, id string, input UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, callerID, id string) error
	MarkCompleted(ctx context.Context, callerID, id string) (*domain.Todo, error)
	MarkPending(ctx context.Context, callerID, id string) (*domain.Todo, error)
	Stats(ctx context.Context, callerID string) (*domain.TodoStats, error)
}
