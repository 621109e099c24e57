package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

const todoColumns = `id, user_id, title, description, completed, due_date, created_at, updated_at`

type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	query :=
		`INSERT INTO todos (` + todoColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	t.CreatedAt = dbTime(t.CreatedAt)
	t.UpdatedAt = dbTime(t.UpdatedAt)
	if t.DueDate != nil {
		d := dbTime(*t.DueDate)
		t.DueDate = &d
	}

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, nullString(t.Description), t.Completed, nullTime(t.DueDate), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	query :=
		`SELECT ` + todoColumns + ` FROM todos
		 WHERE id = $1 AND user_id = $2`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) List(ctx context.Context, q domain.TodoQuery) ([]*domain.Todo, int64, error) {
	f := buildTodoFilter(q)

	var total int64
	countQuery := `SELECT COUNT(*) FROM todos ` + f.where()
	if err := r.db.QueryRowContext(ctx, countQuery, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	items := []*domain.Todo{}
	if total == 0 || q.Offset() >= int(total) {
		return items, total, nil
	}

	limitAt := f.next()
	listQuery := fmt.Sprintf(`SELECT %s FROM todos %s %s LIMIT $%d OFFSET $%d`,
		todoColumns, f.where(), orderBy(q), limitAt, limitAt+1)
	args := append(f.args, q.PerPage, q.Offset())

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return items, total, nil
}

// Update writes only supplied columns. updated_at never moves backwards and
// always advances by at least one microsecond.
func (r *TodoRepository) Update(ctx context.Context, ownerID, id string, c domain.TodoChanges, now time.Time) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if c.Title != nil {
		set("title", *c.Title)
	}
	if c.Description != nil {
		set("description", *c.Description)
	}
	if c.Completed != nil {
		set("completed", *c.Completed)
	}
	if c.DueDate != nil {
		set("due_date", dbTime(*c.DueDate))
	}
	args = append(args, dbTime(now))
	sets = append(sets, fmt.Sprintf("updated_at = GREATEST($%d, updated_at + interval '1 microsecond')", len(args)))

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *TodoRepository) Counts(ctx context.Context, ownerID string, now time.Time) (domain.TodoCounts, error) {
	query :=
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE completed),
		        COUNT(*) FILTER (WHERE NOT completed AND due_date IS NOT NULL AND due_date < $2)
		 FROM todos
		 WHERE user_id = $1`

	var c domain.TodoCounts
	if err := r.db.QueryRowContext(ctx, query, ownerID, now.UTC()).Scan(&c.Total, &c.Completed, &c.Overdue); err != nil {
		return domain.TodoCounts{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var (
		t    domain.Todo
		desc sql.NullString
		due  sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Completed, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
