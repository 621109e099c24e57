package postgres

import (
	"fmt"
	"strings"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// sortColumns whitelists ORDER BY targets; user input never reaches the SQL
// text directly.
var sortColumns = map[domain.TodoSortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByDueDate:   "due_date",
	domain.SortByTitle:     "title",
}

// todoFilter is the WHERE clause of a listing plus its positional args.
type todoFilter struct {
	clauses []string
	args    []any
}

func (f *todoFilter) add(clause string, arg any) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, fmt.Sprintf(clause, len(f.args)))
}

func (f *todoFilter) where() string {
	return "WHERE " + strings.Join(f.clauses, " AND ")
}

// next is the placeholder index the next appended arg will take.
func (f *todoFilter) next() int {
	return len(f.args) + 1
}

func buildTodoFilter(q domain.TodoQuery) *todoFilter {
	f := &todoFilter{}
	f.add("user_id = $%d", q.OwnerID)

	switch q.Status {
	case domain.StatusCompleted:
		f.add("completed = $%d", true)
	case domain.StatusPending:
		f.add("completed = $%d", false)
	}

	if q.Search != "" {
		f.add(`title ILIKE $%d ESCAPE '\'`, "%"+escapeLike(q.Search)+"%")
	}
	return f
}

// orderBy renders ORDER BY with id as the tie breaker so pages are stable.
// Todos without a due date sort after dated ones in either direction.
func orderBy(q domain.TodoQuery) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.Order == domain.OrderAsc {
		dir = "ASC"
	}

	nulls := ""
	if col == "due_date" {
		nulls = " NULLS LAST"
	}
	return fmt.Sprintf("ORDER BY %s %s%s, id %s", col, dir, nulls, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
