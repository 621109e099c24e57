package domain

import (
	"strings"
	"time"
)

// User models an account that owns todos.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail is applied before every lookup and write so the unique
// index compares like with like.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
