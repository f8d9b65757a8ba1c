package breakgame

const (
	// GuessRangeStep is how much the number range grows per level.
	GuessRangeStep = 50
	GuessPoints    = 10
)

// Verdict is the answer to one guess.
type Verdict string

const (
	VerdictTooHigh Verdict = "too_high"
	VerdictTooLow  Verdict = "too_low"
	VerdictCorrect Verdict = "correct"
)

// GuessOutcome reports a guess and the level the player is now on.
type GuessOutcome struct {
	Verdict  Verdict `json:"verdict"`
	Points   int     `json:"points"`
	Level    int     `json:"level"`
	MaxGuess int     `json:"max_guess"`
	Score    int     `json:"score"`
}

// MaxGuess is the top of the secret's range at a level.
func MaxGuess(level int) int {
	return GuessRangeStep * level
}

func (e *Engine) drawSecret(level int) int {
	return 1 + e.rng.IntN(MaxGuess(level))
}

// SubmitGuess compares guess to the secret. A correct guess scores, advances
// the level and draws a new secret from the wider range.
func (e *Engine) SubmitGuess(s *Session, guess int) (GuessOutcome, error) {
	if err := e.begin(s, GameNumberGuess); err != nil {
		return GuessOutcome{}, err
	}
	if guess < 1 || guess > MaxGuess(s.Level) {
		return GuessOutcome{}, ErrGuessOutOfRange
	}

	out := GuessOutcome{}
	switch {
	case guess > s.Secret:
		out.Verdict = VerdictTooHigh
	case guess < s.Secret:
		out.Verdict = VerdictTooLow
	default:
		out.Verdict = VerdictCorrect
		out.Points = GuessPoints
		s.Score += GuessPoints
		s.Level++
		s.Secret = e.drawSecret(s.Level)
	}
	out.Level = s.Level
	out.MaxGuess = MaxGuess(s.Level)
	out.Score = s.Score
	return out, nil
}
