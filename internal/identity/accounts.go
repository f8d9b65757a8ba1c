package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/study-companion/internal/domain"
	"github.com/ashureev/study-companion/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen = 64
	// bcrypt only hashes the first 72 bytes.
	maxPasswordLen = 72
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTooLong    = errors.New("username is too long")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrUsernameTaken      = errors.New("username exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Accounts creates and authenticates users.
type Accounts struct {
	repo store.UserRepository
	cost int
	now  func() time.Time
}

// NewAccounts creates an account service using bcrypt's default cost.
func NewAccounts(repo store.UserRepository) *Accounts {
	return &Accounts{repo: repo, cost: bcrypt.DefaultCost, now: time.Now}
}

// NewAccountsWithCost creates an account service with an explicit bcrypt cost.
func NewAccountsWithCost(repo store.UserRepository, cost int) *Accounts {
	return &Accounts{repo: repo, cost: cost, now: time.Now}
}

// Signup registers a new user.
func (a *Accounts) Signup(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return ErrMissingCredentials
	}
	if len(username) > maxUsernameLen {
		return ErrUsernameTooLong
	}
	if len(password) > maxPasswordLen {
		return ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = a.repo.CreateUser(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    a.now(),
	})
	if errors.Is(err, store.ErrUserExists) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.Info("Account created", "username", username)
	return nil
}

// Login checks a username and password and returns the canonical username.
func (a *Accounts) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	user, err := a.repo.GetUser(ctx, username)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.HasPassword() {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user.Username, nil
}
