package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/validation"
)

// Layouts without an offset are read as UTC.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dueDate converts an optional date string. An empty string is treated like
// an absent value.
func dueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, ok := parseDate(*raw)
	if !ok {
		verr := domain.NewValidationError()
		verr.Add("due_date", validation.Message("due_date", "date", ""))
		return nil, verr
	}
	return &t, nil
}

// --- Request → Service input ---

func toCreateInput(req createTodoRequest) (ports.CreateTodoInput, error) {
	due, err := dueDate(req.DueDate)
	if err != nil {
		return ports.CreateTodoInput{}, err
	}
	return ports.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
	}, nil
}

func toUpdateInput(req updateTodoRequest) (ports.UpdateTodoInput, error) {
	due, err := dueDate(req.DueDate)
	if err != nil {
		return ports.UpdateTodoInput{}, err
	}
	return ports.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     due,
	}, nil
}

// toListInput reads the listing query string. Numbers that do not parse are
// left at zero so the service applies its defaults.
func toListInput(c echo.Context) ports.ListTodosInput {
	return ports.ListTodosInput{
		Status:    c.QueryParam("status"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Page:      queryInt(c, "page"),
		PerPage:   queryInt(c, "per_page"),
	}
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return n
}

// --- Service result → HTTP response ---

func toTodoResponse(t *domain.Todo) todoResponse {
	resp := todoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		resp.DueDate = &d
	}
	return resp
}

func toStatsResponse(s *domain.TodoStats) statsResponse {
	return statsResponse{
		TotalTodos:     s.Total,
		CompletedTodos: s.Completed,
		PendingTodos:   s.Pending,
		OverdueTodos:   s.Overdue,
		CompletionRate: s.CompletionRate,
	}
}

func toPaginatedTodos(p *domain.TodoPage) paginatedTodos {
	items := make([]todoResponse, len(p.Items))
	for i, t := range p.Items {
		items[i] = toTodoResponse(t)
	}

	out := paginatedTodos{
		CurrentPage: p.Page,
		Data:        items,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
	if len(items) > 0 {
		from := (p.Page-1)*p.PerPage + 1
		to := from + len(items) - 1
		out.From = &from
		out.To = &to
	}
	return out
}
