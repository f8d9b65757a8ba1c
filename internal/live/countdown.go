package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/study-companion/internal/breakgame"
	"github.com/ashureev/study-companion/internal/identity"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// Message types pushed to the client.
const (
	MessageTick      = "tick"
	MessageCompleted = "completed"
	MessageIdle      = "idle"
	MessageError     = "error"
)

// Message is one countdown update.
type Message struct {
	Type  string             `json:"type"`
	Break breakgame.Snapshot `json:"break"`
	Error string             `json:"error,omitempty"`
}

// CountdownHandler pushes the user's break snapshot once per tick until the
// break ends, the client goes away or the stream is closed by CloseSession.
type CountdownHandler struct {
	store         breakgame.SessionStore
	engine        *breakgame.Engine
	locks         *breakgame.UserLocks
	sm            *SessionManager
	interval      time.Duration
	allowedOrigin string
	isDev         bool
}

// NewCountdownHandler creates a countdown websocket handler. locks must be
// the same instance the HTTP handlers use.
func NewCountdownHandler(store breakgame.SessionStore, engine *breakgame.Engine, locks *breakgame.UserLocks, sm *SessionManager, interval time.Duration, allowedOrigin string, isDev bool) *CountdownHandler {
	if interval <= 0 {
		interval = time.Second
	}
	if locks == nil {
		locks = &breakgame.UserLocks{}
	}
	return &CountdownHandler{
		store:         store,
		engine:        engine,
		locks:         locks,
		sm:            sm,
		interval:      interval,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for the websocket upgrade.
func (h *CountdownHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UsernameFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "countdown ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.sm.Register(userID, sessionID, ws)
	defer h.sm.Unregister(userID, sessionID, ws)

	// Clients never send anything; CloseRead handles control frames and
	// cancels ctx once the peer disconnects.
	ctx := ws.CloseRead(r.Context())
	h.stream(ctx, ws, userID)
}

func (h *CountdownHandler) stream(ctx context.Context, ws *websocket.Conn, userID string) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		msg, err := h.tick(ctx, userID)
		if err != nil {
			if ctx.Err() == nil {
				slog.Error("Countdown refresh failed", "error", err, "user_id", userID)
				_ = h.write(ctx, ws, Message{Type: MessageError, Error: "failed to load break"})
			}
			return
		}
		if err := h.write(ctx, ws, msg); err != nil {
			if ctx.Err() == nil && !isClosed(err) {
				slog.Debug("Countdown write failed", "error", err, "user_id", userID)
			}
			return
		}
		if msg.Type != MessageTick {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick refreshes the stored session under the user's lock and saves it when
// the refresh expired the break.
func (h *CountdownHandler) tick(ctx context.Context, userID string) (Message, error) {
	unlock := h.locks.Lock(userID)
	defer unlock()

	s, err := h.store.Load(ctx, userID)
	if err != nil {
		return Message{}, err
	}
	if h.engine.Refresh(s) {
		if err := h.store.Save(ctx, s); err != nil {
			return Message{}, err
		}
		slog.Info("Break completed", "user_id", userID)
	}

	snap := h.engine.Snapshot(s)
	switch {
	case snap.Active:
		return Message{Type: MessageTick, Break: snap}, nil
	case snap.Completed:
		return Message{Type: MessageCompleted, Break: snap}, nil
	default:
		return Message{Type: MessageIdle, Break: snap}, nil
	}
}

func (h *CountdownHandler) write(ctx context.Context, ws *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws, msg)
}

func (h *CountdownHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func isClosed(err error) bool {
	var ce websocket.CloseError
	return errors.As(err, &ce) || errors.Is(err, context.Canceled)
}
