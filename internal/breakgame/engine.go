package breakgame

import "time"

// Engine applies break transitions. It owns the clock and the random source,
// never the sessions, so one Engine serves every user.
type Engine struct {
	rng Rand
	now func() time.Time
}

// NewEngine creates an engine using the wall clock and math/rand/v2.
func NewEngine() *Engine {
	return &Engine{rng: SystemRand(), now: time.Now}
}

// NewEngineWith creates an engine with an explicit random source and clock.
func NewEngineWith(rng Rand, now func() time.Time) *Engine {
	return &Engine{rng: rng, now: now}
}

// Start begins a fresh break for the user: score 0, no game selected, number
// guessing back at level 1.
func (e *Engine) Start(userID string) *Session {
	return &Session{
		UserID:    userID,
		Active:    true,
		Score:     0,
		StartedAt: e.now(),
		Game:      GameNone,
		Level:     1,
		Secret:    e.drawSecret(1),
	}
}

// Stop ends an active break early. Stopping an idle session is a no-op.
func (e *Engine) Stop(s *Session) {
	if s == nil {
		return
	}
	s.Active = false
	s.Pending = nil
}

func (e *Engine) remaining(s *Session) int {
	elapsed := int(e.now().Sub(s.StartedAt) / time.Second)
	return int(Duration/time.Second) - elapsed
}

// Remaining returns the whole seconds left in the break, 0 when idle.
func (e *Engine) Remaining(s *Session) int {
	if s == nil || !s.Active {
		return 0
	}
	if r := e.remaining(s); r > 0 {
		return r
	}
	return 0
}

// Refresh re-evaluates the countdown. It reports true on the call that moves
// the session from active to idle because time ran out.
func (e *Engine) Refresh(s *Session) bool {
	if s == nil || !s.Active {
		return false
	}
	if e.remaining(s) > 0 {
		return false
	}
	done := e.now()
	s.Active = false
	s.Pending = nil
	s.CompletedAt = &done
	return true
}

// Select switches the minigame. Choosing a different game discards the
// pending math problem; score, level and countdown carry over.
func (e *Engine) Select(s *Session, g Game) error {
	if _, err := ParseGame(string(g)); err != nil {
		return err
	}
	if !e.ensureActive(s) {
		return ErrInactive
	}
	if g != s.Game {
		s.Game = g
		s.Pending = nil
	}
	return nil
}

func (e *Engine) ensureActive(s *Session) bool {
	if s == nil {
		return false
	}
	e.Refresh(s)
	return s.Active
}

// begin guards every minigame action.
func (e *Engine) begin(s *Session, g Game) error {
	if !e.ensureActive(s) {
		return ErrInactive
	}
	if s.Game != g {
		return ErrGameNotSelected
	}
	return nil
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	Active    bool         `json:"active"`
	Remaining int          `json:"remaining_seconds"`
	Score     int          `json:"score"`
	Game      Game         `json:"game"`
	Level     int          `json:"level,omitempty"`
	MaxGuess  int          `json:"max_guess,omitempty"`
	Problem   *ProblemView `json:"problem,omitempty"`
	Completed bool         `json:"completed"`
	Notice    string       `json:"notice,omitempty"`
}

// Snapshot refreshes s and describes it. A nil session is an idle break.
func (e *Engine) Snapshot(s *Session) Snapshot {
	if s == nil {
		return Snapshot{}
	}
	e.Refresh(s)
	snap := Snapshot{
		Active:    s.Active,
		Remaining: e.Remaining(s),
		Score:     s.Score,
		Game:      s.Game,
	}
	if s.Active && s.Game == GameNumberGuess {
		snap.Level = s.Level
		snap.MaxGuess = MaxGuess(s.Level)
	}
	if s.Active && s.Pending != nil {
		v := s.Pending.View()
		snap.Problem = &v
	}
	if !s.Active && s.CompletedAt != nil {
		snap.Completed = true
		snap.Notice = CompletionNotice
	}
	return snap
}
