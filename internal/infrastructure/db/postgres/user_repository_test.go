package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/todo-api/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userCols = []string{"id", "name", "email", "password_hash", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, name, email, password_hash, created_at, updated_at)")).
		WithArgs("u1", "Alice", "alice@example.com", "hash", now.Truncate(time.Microsecond), now.Truncate(time.Microsecond)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, now.Truncate(time.Microsecond), u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &domain.User{ID: "u1", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &domain.User{ID: "u1"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "Alice", "alice@example.com", "hash", now, now))

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
