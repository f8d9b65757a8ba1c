// Package api provides HTTP handlers for the study companion API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/study-companion/internal/breakgame"
	"github.com/ashureev/study-companion/internal/emotion"
	"github.com/ashureev/study-companion/internal/history"
	"github.com/ashureev/study-companion/internal/identity"
	"github.com/ashureev/study-companion/internal/live"
	"github.com/ashureev/study-companion/internal/shared"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// Deps are the services a Handler serves requests with.
type Deps struct {
	Moods      *history.Service
	Classifier *emotion.Classifier
	Accounts   *identity.Accounts
	Tokens     *identity.Tokens
	Engine     *breakgame.Engine
	Breaks     breakgame.SessionStore
	Locks      *breakgame.UserLocks
	Sessions   *live.SessionManager
	Picker     emotion.Picker
	IsDev      bool
}

// Handler serves the mood and break endpoints.
type Handler struct {
	moods      *history.Service
	classifier *emotion.Classifier
	accounts   *identity.Accounts
	tokens     *identity.Tokens
	engine     *breakgame.Engine
	breaks     breakgame.SessionStore
	locks      *breakgame.UserLocks
	sm         *live.SessionManager
	picker     emotion.Picker
	isDev      bool
}

// NewHandler creates a Handler. Classifier, Picker and Locks default when nil.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		moods:      d.Moods,
		classifier: d.Classifier,
		accounts:   d.Accounts,
		tokens:     d.Tokens,
		engine:     d.Engine,
		breaks:     d.Breaks,
		locks:      d.Locks,
		sm:         d.Sessions,
		picker:     d.Picker,
		isDev:      d.IsDev,
	}
	if h.classifier == nil {
		h.classifier = emotion.Default()
	}
	if h.picker == nil {
		h.picker = breakgame.SystemRand()
	}
	if h.locks == nil {
		h.locks = &breakgame.UserLocks{}
	}
	return h
}

// RegisterPublicRoutes registers the routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/api/signup", h.Signup)
	r.Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)
}

// RegisterRoutes registers the routes that need identity.Middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/me", h.GetMe)

	r.Post("/api/moods", h.SubmitMood)
	r.Get("/api/moods/history", h.MoodHistory)

	r.Get("/api/break", h.GetBreak)
	r.Post("/api/break/start", h.StartBreak)
	r.Post("/api/break/stop", h.StopBreak)
	r.Post("/api/break/game", h.SelectGame)
	r.Get("/api/break/quick-math", h.GetProblem)
	r.Post("/api/break/quick-math", h.SubmitAnswer)
	r.Post("/api/break/number-guess", h.SubmitGuess)
	r.Post("/api/break/rps", h.PlayRound)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encode failure can only be logged.
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err, "status", status)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into v and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// storeError answers a failed database call. A busy or locked database is
// reported as 503 so the client can resubmit.
func storeError(w http.ResponseWriter, message string, err error, userID string) {
	if shared.IsSQLiteConflictError(err) {
		slog.Warn(message, "error", err, "user_id", userID)
		Error(w, http.StatusServiceUnavailable, "database is busy, please try again")
		return
	}
	slog.Error(message, "error", err, "user_id", userID)
	Error(w, http.StatusInternalServerError, message)
}
