package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubTodoRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Todo
	lastQuery domain.TodoQuery
	err       error
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{byID: make(map[string]*domain.Todo)}
}

func cloneTodo(t *domain.Todo) *domain.Todo {
	clone := *t
	return &clone
}

func (r *stubTodoRepo) owned(ownerID, id string) (*domain.Todo, error) {
	t, ok := r.byID[id]
	if !ok || t.UserID != ownerID {
		return nil, domain.ErrTodoNotFound
	}
	return t, nil
}

func (r *stubTodoRepo) Create(_ context.Context, t *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.byID[t.ID] = cloneTodo(t)
	return nil
}

func (r *stubTodoRepo) FindByID(_ context.Context, ownerID, id string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	return cloneTodo(t), nil
}

// List applies the same filters the real stores use.
func (r *stubTodoRepo) List(_ context.Context, q domain.TodoQuery) ([]*domain.Todo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = q
	if r.err != nil {
		return nil, 0, r.err
	}

	var matched []*domain.Todo
	for _, t := range r.byID {
		if t.UserID != q.OwnerID {
			continue
		}
		if q.Status == domain.StatusCompleted && !t.Completed {
			continue
		}
		if q.Status == domain.StatusPending && t.Completed {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, cloneTodo(t))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		less, equal := false, false
		switch q.SortBy {
		case domain.SortByTitle:
			less, equal = a.Title < b.Title, a.Title == b.Title
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID < b.ID
		}
		if q.Order == domain.OrderDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		return []*domain.Todo{}, total, nil
	}
	end := start + q.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubTodoRepo) Update(_ context.Context, ownerID, id string, changes domain.TodoChanges, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	t, err := r.owned(ownerID, id)
	if err != nil {
		return err
	}
	changes.Apply(t, now)
	return nil
}

func (r *stubTodoRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.owned(ownerID, id); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTodoRepo) Counts(_ context.Context, ownerID string, now time.Time) (domain.TodoCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.TodoCounts{}, r.err
	}
	var c domain.TodoCounts
	for _, t := range r.byID {
		if t.UserID != ownerID {
			continue
		}
		c.Total++
		if t.Completed {
			c.Completed++
		}
		if t.IsOverdue(now) {
			c.Overdue++
		}
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Token doubles
// ---------------------------------------------------------------------------

type stubDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Time)}
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = expiresAt
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

var _ ports.TokenDenylist = (*stubDenylist)(nil)
