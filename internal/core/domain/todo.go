package domain

import (
	"time"
)

// Todo is a task owned by exactly one user.
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOverdue reports whether the todo is still pending past its due date.
// Overdue is computed at read time, never stored.
func (t *Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// TodoChanges carries a partial update. Nil fields are left untouched.
type TodoChanges struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// Empty reports whether no field was supplied.
func (c TodoChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Completed == nil && c.DueDate == nil
}

// Apply copies the supplied fields onto t and stamps UpdatedAt.
func (c TodoChanges) Apply(t *Todo, now time.Time) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		d := *c.Description
		t.Description = &d
	}
	if c.Completed != nil {
		t.Completed = *c.Completed
	}
	if c.DueDate != nil {
		d := *c.DueDate
		t.DueDate = &d
	}
	t.UpdatedAt = NextUpdatedAt(t.UpdatedAt, now)
}

// NextUpdatedAt keeps modification times strictly increasing per record even
// when two writes land inside the same clock tick.
func NextUpdatedAt(previous, now time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Millisecond)
}

// TodoCounts are the raw aggregates a store computes for one owner.
type TodoCounts struct {
	Total     int64
	Completed int64
	Overdue   int64
}

// TodoStats is the derived statistics view.
type TodoStats struct {
	Total          int64   `json:"total_todos"`
	Completed      int64   `json:"completed_todos"`
	Pending        int64   `json:"pending_todos"`
	Overdue        int64   `json:"overdue_todos"`
	CompletionRate float64 `json:"completion_rate"`
}

// TodoPage is one page of a filtered listing.
type TodoPage struct {
	Items    []*Todo
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}
