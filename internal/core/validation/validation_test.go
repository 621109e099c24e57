package validation

import (
	"testing"
	"time"
)

type sample struct {
	Title   string     `json:"title" validate:"required,max=5"`
	Email   string     `json:"email" validate:"omitempty,email"`
	DueDate *time.Time `json:"due_date" validate:"omitempty,future"`
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestStruct_Valid(t *testing.T) {
	due := fixedNow.Add(time.Hour)
	if verr := newTestValidator().Struct(sample{Title: "milk", DueDate: &due}); verr != nil {
		t.Fatalf("expected no errors, got %v", verr)
	}
}

func TestStruct_CollectsEveryField(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	verr := newTestValidator().Struct(sample{Title: "", Email: "nope", DueDate: &past})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	want := map[string]string{
		"title":    "The title field is required.",
		"email":    "The email field must be a valid email address.",
		"due_date": "The due date field must be a date after now.",
	}
	for field, msg := range want {
		got := verr.Fields[field]
		if len(got) != 1 || got[0] != msg {
			t.Errorf("%s: want [%q], got %v", field, msg, got)
		}
	}
}

func TestStruct_MaxCountsRunes(t *testing.T) {
	if verr := newTestValidator().Struct(sample{Title: "ñañañ"}); verr != nil {
		t.Fatalf("five runes must pass max=5, got %v", verr)
	}
	verr := newTestValidator().Struct(sample{Title: "ñañaña"})
	if verr == nil || verr.Fields["title"][0] != "The title field must not be greater than 5 characters." {
		t.Fatalf("unexpected result: %v", verr)
	}
}

func TestStruct_FutureUsesInjectedClock(t *testing.T) {
	exactlyNow := fixedNow
	verr := newTestValidator().Struct(sample{Title: "a", DueDate: &exactlyNow})
	if verr == nil || len(verr.Fields["due_date"]) != 1 {
		t.Fatalf("due date equal to now must fail, got %v", verr)
	}
}

func TestAttribute(t *testing.T) {
	if got := Attribute("password_confirmation"); got != "password confirmation" {
		t.Fatalf("got %q", got)
	}
}
