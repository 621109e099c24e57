package handler

import "time"

const statusSuccess = "success"

// messageResponse is the envelope for operations that only report an outcome.
type messageResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// validationErrorResponse documents the 422 body rendered by the error handler.
type validationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// --- Request types ---

// Dates travel as strings so several layouts can be accepted.
type createTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// JSON null and an absent key both decode to nil and mean "leave unchanged".
type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date"`
}

// --- Response types ---
// These are owned by the transport layer so the JSON contract does not
// follow every change to the domain types.

type todoResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type todoEnvelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    todoResponse `json:"data"`
}

type statsResponse struct {
	TotalTodos     int64   `json:"total_todos"`
	CompletedTodos int64   `json:"completed_todos"`
	PendingTodos   int64   `json:"pending_todos"`
	OverdueTodos   int64   `json:"overdue_todos"`
	CompletionRate float64 `json:"completion_rate"`
}

type statsEnvelope struct {
	Status string        `json:"status"`
	Data   statsResponse `json:"data"`
}

// paginatedTodos follows the usual paginator layout; from and to are null
// when the page is empty.
type paginatedTodos struct {
	CurrentPage int            `json:"current_page"`
	Data        []todoResponse `json:"data"`
	From        *int           `json:"from"`
	LastPage    int            `json:"last_page"`
	PerPage     int            `json:"per_page"`
	To          *int           `json:"to"`
	Total       int64          `json:"total"`
}

type listEnvelope struct {
	Status string         `json:"status"`
	Data   paginatedTodos `json:"data"`
}
