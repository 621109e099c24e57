package domain

import (
	"math"
	"testing"
	"time"
)

func TestNewTodoQuery_Defaults(t *testing.T) {
	q := NewTodoQuery("u1")

	if q.OwnerID != "u1" {
		t.Fatalf("owner: got %q", q.OwnerID)
	}
	if q.Status != StatusAny || q.SortBy != SortByCreatedAt || q.Order != OrderDesc {
		t.Fatalf("unexpected defaults: %+v", q)
	}
	if q.Page != 1 || q.PerPage != DefaultPerPage {
		t.Fatalf("unexpected page window: %+v", q)
	}
}

func TestTodoQuery_WithStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TodoStatus
	}{
		{"completed", StatusCompleted},
		{"pending", StatusPending},
		{" Pending ", StatusPending},
		{"", StatusAny},
		{"archived", StatusAny},
	}

	for _, tc := range cases {
		if got := NewTodoQuery("u1").WithStatus(tc.raw).Status; got != tc.want {
			t.Errorf("status %q: want %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestTodoQuery_SortedBy_FallsBackToDefaults(t *testing.T) {
	q := NewTodoQuery("u1").SortedBy("title", "asc")
	if q.SortBy != SortByTitle || q.Order != OrderAsc {
		t.Fatalf("expected title asc, got %s %s", q.SortBy, q.Order)
	}

	q = q.SortedBy("password; DROP TABLE todos", "sideways")
	if q.SortBy != SortByCreatedAt || q.Order != OrderDesc {
		t.Fatalf("expected defaults for unknown input, got %s %s", q.SortBy, q.Order)
	}
}

func TestTodoQuery_Paginate(t *testing.T) {
	cases := []struct {
		name              string
		page, per, max    int
		wantPage, wantPer int
	}{
		{"defaults", 0, 0, 0, 1, DefaultPerPage},
		{"explicit", 3, 20, 100, 3, 20},
		{"capped", 1, 5000, 100, 1, 100},
		{"custom cap", 1, 60, 50, 1, 50},
		{"negative page", -2, 10, 100, 1, 10},
		{"huge page", 100000000000000000, 100, 100, math.MaxInt / 100, 100},
	}

	for _, tc := range cases {
		q := NewTodoQuery("u1").Paginate(tc.page, tc.per, tc.max)
		if q.Page != tc.wantPage || q.PerPage != tc.wantPer {
			t.Errorf("%s: want page=%d per=%d, got page=%d per=%d", tc.name, tc.wantPage, tc.wantPer, q.Page, q.PerPage)
		}
	}
}

func TestTodoQuery_BuilderReturnsCopy(t *testing.T) {
	base := NewTodoQuery("u1")
	_ = base.WithStatus("completed").WithSearch("milk")

	if base.Status != StatusAny || base.Search != "" {
		t.Fatalf("base query mutated: %+v", base)
	}
}

func TestTodoQuery_Offset(t *testing.T) {
	if got := NewTodoQuery("u1").Paginate(3, 15, 100).Offset(); got != 30 {
		t.Fatalf("expected offset 30, got %d", got)
	}

	if got := NewTodoQuery("u1").Paginate(100000000000000000, 100, 100).Offset(); got < 0 {
		t.Fatalf("expected non-negative offset for huge page, got %d", got)
	}

	raw := TodoQuery{Page: math.MaxInt, PerPage: 100}
	if got := raw.Offset(); got != math.MaxInt {
		t.Fatalf("expected offset to saturate, got %d", got)
	}
}

func TestTodoQuery_WithSearch_DropsInvalidBytes(t *testing.T) {
	cases := map[string]string{
		"  milk  ":       "milk",
		"\xffmilk":       "milk",
		"mi\x00lk":       "milk",
		"\x00\xff":       "",
		"caf\u00e9 list": "caf\u00e9 list",
	}
	for in, want := range cases {
		if got := NewTodoQuery("u1").WithSearch(in).Search; got != want {
			t.Errorf("WithSearch(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestLastPage(t *testing.T) {
	cases := []struct {
		total int64
		per   int
		want  int
	}{
		{0, 15, 1},
		{1, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{31, 15, 3},
	}
	for _, tc := range cases {
		if got := LastPage(tc.total, tc.per); got != tc.want {
			t.Errorf("LastPage(%d,%d): want %d, got %d", tc.total, tc.per, tc.want, got)
		}
	}
}

func TestTodo_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		todo Todo
		want bool
	}{
		{"pending past due", Todo{DueDate: &past}, true},
		{"completed past due", Todo{Completed: true, DueDate: &past}, false},
		{"pending future", Todo{DueDate: &future}, false},
		{"no due date", Todo{}, false},
		{"due exactly now", Todo{DueDate: &now}, false},
	}
	for _, tc := range cases {
		if got := tc.todo.IsOverdue(now); got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestNextUpdatedAt_StrictlyIncreasing(t *testing.T) {
	prev := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := NextUpdatedAt(prev, prev); !got.After(prev) {
		t.Fatalf("same tick must still advance, got %v", got)
	}
	later := prev.Add(time.Second)
	if got := NextUpdatedAt(prev, later); !got.Equal(later) {
		t.Fatalf("expected now when it is later, got %v", got)
	}
}

func TestValidationError_Summary(t *testing.T) {
	verr := NewValidationError()
	if verr.HasErrors() || verr.OrNil() != nil {
		t.Fatalf("empty error must report no errors")
	}

	verr.Add("title", "The title field is required.")
	if got := verr.Summary(); got != "The title field is required." {
		t.Fatalf("unexpected summary: %q", got)
	}

	verr.Add("due_date", "The due date field must be a date after now.")
	verr.Add("title", "second")
	if got := verr.Summary(); got != "The due date field must be a date after now. (and 2 more errors)" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if verr.OrNil() == nil {
		t.Fatalf("OrNil must return the error when populated")
	}
}
