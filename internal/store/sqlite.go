package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/study-companion/internal/domain"
	"github.com/ashureev/study-companion/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL lets the history page read while an entry is being appended.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS moods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		emotion TEXT NOT NULL,
		recorded_on TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_moods_user_day ON moods(username, recorded_on);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetUser retrieves a user by username.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT username, password_hash, created_at FROM users WHERE username = ?`

	var user domain.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, username).Scan(&user.Username, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0)
	return &user, nil
}

// CreateUser inserts a new user record.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt.Unix())
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// AppendMood adds one mood record for a user.
func (s *SQLiteStore) AppendMood(ctx context.Context, username string, rec domain.MoodRecord) error {
	query := `INSERT INTO moods (username, emotion, recorded_on) VALUES (?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, username, string(rec.Emotion), rec.Date.Format(domain.DateLayout))
	if err != nil {
		return fmt.Errorf("append mood: %w", err)
	}
	return nil
}

// ListMoods returns a user's whole history in insertion order.
func (s *SQLiteStore) ListMoods(ctx context.Context, username string) ([]domain.MoodRecord, error) {
	query := `SELECT emotion, recorded_on FROM moods WHERE username = ? ORDER BY id`
	return s.queryMoods(ctx, query, username)
}

// ListMoodsBetween returns records whose date falls within [from, to].
func (s *SQLiteStore) ListMoodsBetween(ctx context.Context, username string, from, to time.Time) ([]domain.MoodRecord, error) {
	// ISO dates compare correctly as text.
	query := `
		SELECT emotion, recorded_on FROM moods
		WHERE username = ? AND recorded_on BETWEEN ? AND ?
		ORDER BY id`
	return s.queryMoods(ctx, query, username, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
}

func (s *SQLiteStore) queryMoods(ctx context.Context, query string, args ...any) ([]domain.MoodRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close mood rows", "error", closeErr)
		}
	}()

	var records []domain.MoodRecord
	for rows.Next() {
		var emotion, day string
		if err := rows.Scan(&emotion, &day); err != nil {
			return nil, fmt.Errorf("scan mood row: %w", err)
		}
		date, err := domain.ParseDay(day)
		if err != nil {
			slog.Warn("skipping mood with malformed date", "recorded_on", day, "error", err)
			continue
		}
		records = append(records, domain.MoodRecord{Emotion: domain.Emotion(emotion), Date: date})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moods: %w", err)
	}

	return records, nil
}
