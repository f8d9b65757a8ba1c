package breakgame

import "strings"

const RPSPoints = 5

// Choice is a rock-paper-scissors hand.
type Choice string

const (
	Rock     Choice = "Rock"
	Paper    Choice = "Paper"
	Scissors Choice = "Scissors"
)

// Choices is the draw order for the opponent.
var Choices = []Choice{Rock, Paper, Scissors}

var beats = map[Choice]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ParseChoice accepts a hand name in any case.
func ParseChoice(s string) (Choice, error) {
	for _, c := range Choices {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidChoice
}

// Result of a round from the player's side.
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
	ResultTie  Result = "tie"
)

// RoundOutcome reports both hands and the result.
type RoundOutcome struct {
	Player   Choice `json:"player"`
	Opponent Choice `json:"opponent"`
	Result   Result `json:"result"`
	Points   int    `json:"points"`
	Score    int    `json:"score"`
}

// PlayRound plays choice against a uniformly drawn opponent hand.
func (e *Engine) PlayRound(s *Session, choice Choice) (RoundOutcome, error) {
	if _, ok := beats[choice]; !ok {
		return RoundOutcome{}, ErrInvalidChoice
	}
	if err := e.begin(s, GameRPS); err != nil {
		return RoundOutcome{}, err
	}

	opp := Choices[e.rng.IntN(len(Choices))]
	out := RoundOutcome{Player: choice, Opponent: opp}
	switch {
	case choice == opp:
		out.Result = ResultTie
	case beats[choice] == opp:
		out.Result = ResultWin
		out.Points = RPSPoints
		s.Score += RPSPoints
	default:
		out.Result = ResultLose
	}
	out.Score = s.Score
	return out, nil
}
