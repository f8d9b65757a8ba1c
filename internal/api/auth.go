package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/study-companion/internal/identity"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates an account and logs it in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.Signup(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, identity.ErrMissingCredentials),
		errors.Is(err, identity.ErrUsernameTooLong),
		errors.Is(err, identity.ErrPasswordTooLong):
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, identity.ErrUsernameTaken):
		Error(w, http.StatusConflict, "Username exists")
		return
	case err != nil:
		storeError(w, "Failed to create account", err, "")
		return
	}

	username := strings.TrimSpace(req.Username)
	if err := h.tokens.SetCookie(w, username, h.isDev); err != nil {
		slog.Error("Failed to issue session", "error", err, "user_id", username)
		Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	JSON(w, http.StatusCreated, map[string]string{"username": username})
}

// Login checks credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	username, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, identity.ErrMissingCredentials):
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		slog.Info("Login rejected", "username", strings.TrimSpace(req.Username), "ip", identity.IPFromRequest(r))
		Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		storeError(w, "Failed to log in", err, "")
		return
	}

	if err := h.tokens.SetCookie(w, username, h.isDev); err != nil {
		slog.Error("Failed to issue session", "error", err, "user_id", username)
		Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	slog.Info("User logged in", "user_id", username, "ip", identity.IPFromRequest(r))
	JSON(w, http.StatusOK, map[string]string{"username": username})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	identity.ClearCookie(w, h.isDev)
	JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// GetMe returns the logged-in username.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := identity.UsernameFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"username":   userID,
		"session_id": identity.SessionIDFromContext(r.Context()),
	})
}
