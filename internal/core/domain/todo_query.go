package domain

import (
	"math"
	"strings"
)

// TodoStatus filters a listing by completion flag.
type TodoStatus string

const (
	StatusAny       TodoStatus = ""
	StatusCompleted TodoStatus = "completed"
	StatusPending   TodoStatus = "pending"
)

// TodoSortField is a column a listing may be ordered by.
type TodoSortField string

const (
	SortByCreatedAt TodoSortField = "created_at"
	SortByDueDate   TodoSortField = "due_date"
	SortByTitle     TodoSortField = "title"
)

// SortOrder is the direction of a listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// TodoQuery is a typed, composable description of a todo listing. Every
// query is scoped to a single owner; the remaining parts are optional and
// fall back to defaults when the raw input is not recognised.
//
// Builder methods return a modified copy, so a base query can be reused.
type TodoQuery struct {
	OwnerID string
	Status  TodoStatus
	Search  string
	SortBy  TodoSortField
	Order   SortOrder
	Page    int
	PerPage int
}

// NewTodoQuery returns the default listing for owner: every status, newest
// first, first page of DefaultPerPage.
func NewTodoQuery(ownerID string) TodoQuery {
	return TodoQuery{
		OwnerID: ownerID,
		Status:  StatusAny,
		SortBy:  SortByCreatedAt,
		Order:   OrderDesc,
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// WithStatus narrows by completion. Unknown values leave the filter unset.
func (q TodoQuery) WithStatus(raw string) TodoQuery {
	switch TodoStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusCompleted:
		q.Status = StatusCompleted
	case StatusPending:
		q.Status = StatusPending
	default:
		q.Status = StatusAny
	}
	return q
}

// WithSearch sets a substring match on the title. Invalid UTF-8 and NUL
// bytes are dropped since neither store accepts them in a text parameter.
func (q TodoQuery) WithSearch(term string) TodoQuery {
	term = strings.ToValidUTF8(term, "")
	term = strings.ReplaceAll(term, "\x00", "")
	q.Search = strings.TrimSpace(term)
	return q
}

// SortedBy sets ordering. Unknown fields or directions keep the defaults.
func (q TodoQuery) SortedBy(field, order string) TodoQuery {
	switch f := TodoSortField(strings.ToLower(strings.TrimSpace(field))); f {
	case SortByCreatedAt, SortByDueDate, SortByTitle:
		q.SortBy = f
	default:
		q.SortBy = SortByCreatedAt
	}
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(order))); o {
	case OrderAsc, OrderDesc:
		q.Order = o
	default:
		q.Order = OrderDesc
	}
	return q
}

// Paginate sets the page window. perPage <= 0 means DefaultPerPage and is
// capped at maxPerPage (MaxPerPage when maxPerPage <= 0). page is clamped so
// Offset never overflows.
func (q TodoQuery) Paginate(page, perPage, maxPerPage int) TodoQuery {
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	if page < 1 {
		page = 1
	}
	if limit := math.MaxInt / perPage; page > limit {
		page = limit
	}
	q.Page = page
	q.PerPage = perPage
	return q
}

// Offset is the number of rows skipped before the current page.
// It saturates at math.MaxInt instead of wrapping.
func (q TodoQuery) Offset() int {
	if q.Page <= 1 || q.PerPage <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PerPage {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PerPage
}

// LastPage mirrors the usual paginator contract: never less than 1.
func LastPage(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		return 1
	}
	return pages
}
