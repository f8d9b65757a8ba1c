// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ashureev/study-companion/internal/domain"
)

// ErrUserExists is returned by CreateUser when the username is taken.
var ErrUserExists = errors.New("user already exists")

// UserRepository persists account credentials.
type UserRepository interface {
	// GetUser retrieves a user by username. Returns nil, nil when absent.
	GetUser(ctx context.Context, username string) (*domain.User, error)

	// CreateUser inserts a new user, failing with ErrUserExists on conflict.
	CreateUser(ctx context.Context, user *domain.User) error
}

// MoodRepository persists per-user mood history.
type MoodRepository interface {
	// AppendMood adds one record to the end of the user's history.
	AppendMood(ctx context.Context, username string, rec domain.MoodRecord) error

	// ListMoods returns the user's history in insertion order.
	ListMoods(ctx context.Context, username string) ([]domain.MoodRecord, error)

	// ListMoodsBetween returns records dated within [from, to], in insertion order.
	ListMoodsBetween(ctx context.Context, username string, from, to time.Time) ([]domain.MoodRecord, error)
}

// Repository is the full persistence surface used by the server.
type Repository interface {
	UserRepository
	MoodRepository

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
