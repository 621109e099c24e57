package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/validation"
)

// dummyHash is compared against when the email is unknown so a miss costs
// the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// AuthService implements registration, login and token lifecycle.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	validate *validation.Validator
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, validate *validation.Validator, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)

	verr := domain.NewValidationError()
	verr.Merge(s.validate.Struct(in))
	if in.Password != "" && in.PasswordConfirmation != "" && in.Password != in.PasswordConfirmation {
		verr.Add("password", validation.Message("password", "confirmed", ""))
	}
	if _, taken := verr.Fields["email"]; !taken && in.Email != "" {
		_, err := s.repo.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			verr.Add("email", validation.Message("email", "unique", ""))
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("register: %w", err)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		verr.Add("password", validation.Message("password", "max", "72"))
		return nil, verr
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			verr.Add("email", validation.Message("email", "unique", ""))
			return nil, verr
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in).OrNil(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Me returns the caller's own record. A token whose user no longer exists is
// treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, callerID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, callerToken string) error {
	return s.tokens.Invalidate(ctx, callerToken)
}

func (s *AuthService) Refresh(ctx context.Context, callerToken string) (*ports.AuthResult, error) {
	issued, claims, err := s.tokens.Refresh(ctx, callerToken)
	if err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: issued}, nil
}
