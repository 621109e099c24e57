package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/infrastructure/http/handlers"
)

const goodToken = "good-token"

type fakeTokens struct{}

func (fakeTokens) Issue(context.Context, string) (*ports.IssuedToken, error) {
	return nil, errors.New("not implemented")
}

func (fakeTokens) Verify(_ context.Context, token string) (*ports.TokenClaims, error) {
	if token != goodToken {
		return nil, domain.ErrUnauthenticated
	}
	return &ports.TokenClaims{UserID: "user-1", TokenID: "jti-1"}, nil
}

func (fakeTokens) Invalidate(context.Context, string) error { return nil }

func (fakeTokens) Refresh(context.Context, string) (*ports.IssuedToken, *ports.TokenClaims, error) {
	return nil, nil, errors.New("not implemented")
}

type fakeAuth struct{}

func (fakeAuth) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	verr := domain.NewValidationError()
	verr.Add("name", "The name field is required.")
	return nil, verr
}

func (fakeAuth) Login(context.Context, ports.LoginInput) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (fakeAuth) Me(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Name: "Alice", Email: "alice@example.com"}, nil
}

func (fakeAuth) Logout(context.Context, string) error { return nil }

func (fakeAuth) Refresh(context.Context, string) (*ports.AuthResult, error) {
	return nil, domain.ErrUnauthenticated
}

// fakeTodos records which operation was routed to.
type fakeTodos struct {
	called string
}

func (f *fakeTodos) List(context.Context, string, ports.ListTodosInput) (*domain.TodoPage, error) {
	f.called = "list"
	return &domain.TodoPage{Items: []*domain.Todo{}, Page: 1, PerPage: 15, LastPage: 1}, nil
}

func (f *fakeTodos) Create(context.Context, string, ports.CreateTodoInput) (*domain.Todo, error) {
	f.called = "create"
	return &domain.Todo{ID: "t1"}, nil
}

func (f *fakeTodos) Get(context.Context, string, string) (*domain.Todo, error) {
	f.called = "get"
	return nil, domain.ErrTodoNotFound
}

func (f *fakeTodos) Update(context.Context, string, string, ports.UpdateTodoInput) (*domain.Todo, error) {
	f.called = "update"
	return &domain.Todo{ID: "t1"}, nil
}

func (f *fakeTodos) Delete(context.Context, string, string) error {
	f.called = "delete"
	return nil
}

func (f *fakeTodos) MarkCompleted(context.Context, string, string) (*domain.Todo, error) {
	f.called = "complete"
	return &domain.Todo{ID: "t1", Completed: true}, nil
}

func (f *fakeTodos) MarkPending(context.Context, string, string) (*domain.Todo, error) {
	f.called = "pending"
	return &domain.Todo{ID: "t1"}, nil
}

func (f *fakeTodos) Stats(context.Context, string) (*domain.TodoStats, error) {
	f.called = "stats"
	return &domain.TodoStats{}, nil
}

func newTestRouter(todos *fakeTodos) *echo.Echo {
	return NewRouter(Deps{
		Log:         zerolog.Nop(),
		AuthService: fakeAuth{},
		TodoService: todos,
		Tokens:      fakeTokens{},
		HealthChecks: map[string]handlers.Check{
			"store": func(context.Context) error { return nil },
		},
		Registry: prometheus.NewRegistry(),
	})
}

func serve(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_TodoRoutes(t *testing.T) {
	cases := []struct {
		method, path string
		body         string
		want         string
		code         int
	}{
		{http.MethodGet, "/todos", "", "list", http.StatusOK},
		{http.MethodGet, "/todos/stats", "", "stats", http.StatusOK},
		{http.MethodPost, "/todos", `{"title":"x"}`, "create", http.StatusCreated},
		{http.MethodGet, "/todos/abc", "", "get", http.StatusNotFound},
		{http.MethodPut, "/todos/abc", `{"title":"y"}`, "update", http.StatusOK},
		{http.MethodDelete, "/todos/abc", "", "delete", http.StatusOK},
		{http.MethodPatch, "/todos/abc/complete", "", "complete", http.StatusOK},
		{http.MethodPatch, "/todos/abc/pending", "", "pending", http.StatusOK},
	}

	for _, tc := range cases {
		todos := &fakeTodos{}
		rec := serve(newTestRouter(todos), tc.method, tc.path, goodToken, tc.body)
		if todos.called != tc.want {
			t.Errorf("%s %s: routed to %q, want %q", tc.method, tc.path, todos.called, tc.want)
		}
		if rec.Code != tc.code {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.code, rec.Code)
		}
	}
}

func TestRouter_TodosRequireToken(t *testing.T) {
	for _, token := range []string{"", "forged"} {
		todos := &fakeTodos{}
		rec := serve(newTestRouter(todos), http.MethodGet, "/todos", token, "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"message":"Unauthenticated."}` {
			t.Fatalf("token %q: unexpected body %s", token, rec.Body.String())
		}
		if todos.called != "" {
			t.Fatalf("token %q: handler must not run", token)
		}
	}
}

func TestRouter_AuthRoutes(t *testing.T) {
	e := newTestRouter(&fakeTodos{})

	rec := serve(e, http.MethodPost, "/auth/register", "", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("register: expected 422, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPost, "/auth/login", "", `{"email":"a@b.co","password":"x"}`)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("login: expected 401 invalid credentials, got %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/auth/me", goodToken, "")
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200 json, got %d %s", rec.Code, rec.Body.String())
	}

	if rec = serve(e, http.MethodGet, "/auth/me", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	e := newTestRouter(&fakeTodos{})

	for _, path := range []string{"/health", "/health/ready"} {
		if rec := serve(e, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	serve(e, http.MethodGet, "/health", "", "")
	rec := serve(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "todo_http_requests_total") {
		t.Fatalf("metrics: expected request counter, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "todo_tokens_revoked_total") ||
		!strings.Contains(rec.Body.String(), "todo_list_page_size") {
		t.Fatal("metrics: expected custom collectors on the supplied registry")
	}
}
