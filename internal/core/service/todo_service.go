package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/validation"
)

type TodoService struct {
	repo       ports.TodoRepository
	validate   *validation.Validator
	logger     zerolog.Logger
	maxPerPage int
	now        func() time.Time
}

func NewTodoService(repo ports.TodoRepository, validate *validation.Validator, maxPerPage int, logger zerolog.Logger) *TodoService {
	return &TodoService{
		repo:       repo,
		validate:   validate,
		logger:     logger,
		maxPerPage: maxPerPage,
		now:        time.Now,
	}
}

// List returns one page of the caller's todos. Unknown filter values fall back
// to defaults rather than failing.
func (s *TodoService) List(ctx context.Context, callerID string, in ports.ListTodosInput) (*domain.TodoPage, error) {
	q := domain.NewTodoQuery(callerID).
		WithStatus(in.Status).
		WithSearch(in.Search).
		SortedBy(in.SortBy, in.SortOrder).
		Paginate(in.Page, in.PerPage, s.maxPerPage)

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if items == nil {
		items = []*domain.Todo{}
	}

	return &domain.TodoPage{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PerPage:  q.PerPage,
		LastPage: domain.LastPage(total, q.PerPage),
	}, nil
}

func (s *TodoService) Create(ctx context.Context, callerID string, in ports.CreateTodoInput) (*domain.Todo, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in).OrNil(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	todo := &domain.Todo{
		ID:          uuid.NewString(),
		UserID:      callerID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		s.logger.Error().Err(err).Msg("failed to create todo")
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.logger.Info().Str("todo_id", todo.ID).Str("user_id", callerID).Msg("todo created")
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, callerID, id string) (*domain.Todo, error) {
	if !isTodoID(id) {
		return nil, domain.ErrTodoNotFound
	}
	todo, err := s.repo.FindByID(ctx, callerID, id)
	if err != nil {
		return nil, wrapTodoErr("get todo", err)
	}
	return todo, nil
}

// Update applies a partial update. Ownership is checked before validation so
// a foreign or missing id always reads as not found.
func (s *TodoService) Update(ctx context.Context, callerID, id string, in ports.UpdateTodoInput) (*domain.Todo, error) {
	current, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	verr := domain.NewValidationError()
	if in.Title != nil && *in.Title == "" {
		verr.Add("title", validation.Message("title", "required", ""))
	}
	verr.Merge(s.validate.Struct(in))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	changes := domain.TodoChanges{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
	}
	if changes.Empty() {
		return current, nil
	}
	return s.write(ctx, callerID, id, changes, "updated")
}

func (s *TodoService) Delete(ctx context.Context, callerID, id string) error {
	if !isTodoID(id) {
		return domain.ErrTodoNotFound
	}
	if err := s.repo.Delete(ctx, callerID, id); err != nil {
		return wrapTodoErr("delete todo", err)
	}
	s.logger.Info().Str("todo_id", id).Str("user_id", callerID).Msg("todo deleted")
	return nil
}

func (s *TodoService) MarkCompleted(ctx context.Context, callerID, id string) (*domain.Todo, error) {
	return s.setCompleted(ctx, callerID, id, true)
}

func (s *TodoService) MarkPending(ctx context.Context, callerID, id string) (*domain.Todo, error) {
	return s.setCompleted(ctx, callerID, id, false)
}

// Stats aggregates the caller's todos. The completion rate is a percentage
// rounded to two decimals, 0 when there are no todos.
func (s *TodoService) Stats(ctx context.Context, callerID string) (*domain.TodoStats, error) {
	counts, err := s.repo.Counts(ctx, callerID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("todo stats: %w", err)
	}

	stats := &domain.TodoStats{
		Total:     counts.Total,
		Completed: counts.Completed,
		Pending:   counts.Total - counts.Completed,
		Overdue:   counts.Overdue,
	}
	if counts.Total > 0 {
		stats.CompletionRate = math.Round(float64(counts.Completed)/float64(counts.Total)*100*100) / 100
	}
	return stats, nil
}

func (s *TodoService) setCompleted(ctx context.Context, callerID, id string, completed bool) (*domain.Todo, error) {
	if !isTodoID(id) {
		return nil, domain.ErrTodoNotFound
	}
	state := "pending"
	if completed {
		state = "completed"
	}
	return s.write(ctx, callerID, id, domain.TodoChanges{Completed: &completed}, "marked "+state)
}

// write persists changes and re-reads the row so the caller sees exactly what
// the store holds.
func (s *TodoService) write(ctx context.Context, callerID, id string, changes domain.TodoChanges, action string) (*domain.Todo, error) {
	if err := s.repo.Update(ctx, callerID, id, changes, s.now().UTC()); err != nil {
		return nil, wrapTodoErr("update todo", err)
	}
	todo, err := s.repo.FindByID(ctx, callerID, id)
	if err != nil {
		return nil, wrapTodoErr("reload todo", err)
	}
	s.logger.Info().Str("todo_id", id).Str("user_id", callerID).Msg("todo " + action)
	return todo, nil
}

func isTodoID(id string) bool {
	return uuid.Validate(id) == nil
}

func wrapTodoErr(op string, err error) error {
	if errors.Is(err, domain.ErrTodoNotFound) {
		return domain.ErrTodoNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
