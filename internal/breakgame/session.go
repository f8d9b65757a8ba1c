// Package breakgame implements the timed study-break session and its three
// minigames. The engine is a set of pure state transitions over a Session;
// storing and serializing sessions is left to a SessionStore.
package breakgame

import (
	"errors"
	"math/rand/v2"
	"time"
)

// Duration is the length of one break.
const Duration = 300 * time.Second

// CompletionNotice is shown once a break runs out.
const CompletionNotice = "5 minutes completed! Break complete, now go study 📚🔥"

var (
	ErrInactive        = errors.New("break is not active")
	ErrUnknownGame     = errors.New("unknown game")
	ErrGameNotSelected = errors.New("game is not selected")
	ErrGuessOutOfRange = errors.New("guess out of range")
	ErrNoProblem       = errors.New("no pending problem")
	ErrInvalidChoice   = errors.New("invalid choice")
)

// Game identifies a minigame.
type Game string

const (
	GameNone        Game = ""
	GameNumberGuess Game = "number_guess"
	GameQuickMath   Game = "quick_math"
	GameRPS         Game = "rps"
)

// ParseGame validates a game name. The empty name deselects.
func ParseGame(s string) (Game, error) {
	switch g := Game(s); g {
	case GameNone, GameNumberGuess, GameQuickMath, GameRPS:
		return g, nil
	default:
		return GameNone, ErrUnknownGame
	}
}

// Session is one user's break state.
type Session struct {
	UserID      string     `json:"user_id"`
	Active      bool       `json:"active"`
	Score       int        `json:"score"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Game        Game       `json:"game"`
	Level       int        `json:"level"`
	Secret      int        `json:"secret"`
	Pending     *Problem   `json:"pending,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Rand draws a uniform integer in [0, n).
type Rand interface {
	IntN(n int) int
}

type systemRand struct{}

func (systemRand) IntN(n int) int { return rand.IntN(n) }

// SystemRand returns a Rand backed by the process-wide math/rand/v2 source.
// It is safe for concurrent use.
func SystemRand() Rand {
	return systemRand{}
}
