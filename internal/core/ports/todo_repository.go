package ports

import (
	"context"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// TodoRepository defines persistence operations for todos. Every lookup is
// scoped by owner; a row owned by someone else is reported as
// domain.ErrTodoNotFound, exactly like a missing one.
type TodoRepository interface {
	Create(ctx context.Context, t *domain.Todo) error
	FindByID(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	// List returns a page of todos matching q and the total count before paging.
	List(ctx context.Context, q domain.TodoQuery) ([]*domain.Todo, int64, error)
	// Update writes only the supplied fields and advances updated_at strictly.
	Update(ctx context.Context, ownerID, id string, changes domain.TodoChanges, now time.Time) error
	Delete(ctx context.Context, ownerID, id string) error
	// Counts aggregates totals for one owner; overdue is evaluated against now.
	Counts(ctx context.Context, ownerID string, now time.Time) (domain.TodoCounts, error)
}
