package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/study-companion/internal/breakgame"
	"github.com/ashureev/study-companion/internal/identity"
)

// breakResponse carries an action's result next to the refreshed break.
type breakResponse struct {
	Result interface{}        `json:"result,omitempty"`
	Break  breakgame.Snapshot `json:"break"`
}

// breakAction runs against the user's loaded session, which may be nil.
type breakAction func(s *breakgame.Session) (interface{}, error)

// withBreak runs action under the user's lock and saves the session
// afterwards, even when the action fails: every action refreshes the
// countdown first and may have expired the break.
func (h *Handler) withBreak(w http.ResponseWriter, r *http.Request, action breakAction) {
	ctx := r.Context()
	userID := identity.UsernameFromContext(ctx)

	unlock := h.locks.Lock(userID)
	defer unlock()

	s, err := h.breaks.Load(ctx, userID)
	if err != nil {
		slog.Error("Failed to load break", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "Failed to load break")
		return
	}

	result, actErr := action(s)
	if s != nil {
		if err := h.breaks.Save(ctx, s); err != nil {
			slog.Error("Failed to save break", "error", err, "user_id", userID)
			Error(w, http.StatusInternalServerError, "Failed to save break")
			return
		}
	}
	if actErr != nil {
		breakError(w, actErr, userID)
		return
	}

	JSON(w, http.StatusOK, breakResponse{Result: result, Break: h.engine.Snapshot(s)})
}

func breakError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, breakgame.ErrInactive):
		Error(w, http.StatusConflict, "No active break. Start a break first")
	case errors.Is(err, breakgame.ErrGameNotSelected):
		Error(w, http.StatusConflict, "Select this game first")
	case errors.Is(err, breakgame.ErrNoProblem):
		Error(w, http.StatusConflict, "No problem pending. Fetch a problem first")
	case errors.Is(err, breakgame.ErrUnknownGame),
		errors.Is(err, breakgame.ErrInvalidChoice),
		errors.Is(err, breakgame.ErrGuessOutOfRange):
		Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("Break action failed", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "Break action failed")
	}
}

// GetBreak refreshes the countdown and returns the break state.
func (h *Handler) GetBreak(w http.ResponseWriter, r *http.Request) {
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		h.engine.Refresh(s)
		return nil, nil
	})
}

// StartBreak starts a fresh break, replacing any running one.
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := identity.UsernameFromContext(ctx)

	unlock := h.locks.Lock(userID)
	defer unlock()

	s := h.engine.Start(userID)
	if err := h.breaks.Save(ctx, s); err != nil {
		slog.Error("Failed to save break", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "Failed to start break")
		return
	}

	slog.Info("Break started", "user_id", userID)
	JSON(w, http.StatusOK, breakResponse{Break: h.engine.Snapshot(s)})
}

// StopBreak ends the break early and closes the user's countdown streams.
func (h *Handler) StopBreak(w http.ResponseWriter, r *http.Request) {
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		h.engine.Stop(s)
		return nil, nil
	})
	if h.sm != nil {
		userID := identity.UsernameFromContext(r.Context())
		if n := h.sm.Count(userID); n > 0 {
			slog.Info("Closing countdown streams", "user_id", userID, "streams", n)
			h.sm.CloseSession(userID)
		}
	}
}

type selectGameRequest struct {
	Game string `json:"game"`
}

// SelectGame switches the active minigame.
func (h *Handler) SelectGame(w http.ResponseWriter, r *http.Request) {
	var req selectGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		return nil, h.engine.Select(s, breakgame.Game(req.Game))
	})
}

// GetProblem returns the pending quick math problem, generating one if needed.
func (h *Handler) GetProblem(w http.ResponseWriter, r *http.Request) {
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		return h.engine.CurrentProblem(s)
	})
}

type answerRequest struct {
	Answer *int `json:"answer"`
}

// SubmitAnswer checks an answer to the pending quick math problem.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answer == nil {
		Error(w, http.StatusBadRequest, "answer is required")
		return
	}
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		return h.engine.SubmitAnswer(s, *req.Answer)
	})
}

type guessRequest struct {
	Guess *int `json:"guess"`
}

// SubmitGuess checks a number guess.
func (h *Handler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Guess == nil {
		Error(w, http.StatusBadRequest, "guess is required")
		return
	}
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		return h.engine.SubmitGuess(s, *req.Guess)
	})
}

type rpsRequest struct {
	Choice string `json:"choice"`
}

// PlayRound plays one round of rock-paper-scissors.
func (h *Handler) PlayRound(w http.ResponseWriter, r *http.Request) {
	var req rpsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	choice, err := breakgame.ParseChoice(req.Choice)
	if err != nil {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.withBreak(w, r, func(s *breakgame.Session) (interface{}, error) {
		return h.engine.PlayRound(s, choice)
	})
}
