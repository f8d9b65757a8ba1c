package breakgame

import "fmt"

const (
	MathPoints     = 5
	mathOperandMin = 5
	mathOperandMax = 50
)

// Operator is an arithmetic operator used in quick math.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
)

var operators = []Operator{OpAdd, OpSub, OpMul}

// Problem is a generated question together with its answer.
type Problem struct {
	A      int      `json:"a"`
	B      int      `json:"b"`
	Op     Operator `json:"op"`
	Answer int      `json:"answer"`
}

// ProblemView is a problem as shown to the player.
type ProblemView struct {
	A    int      `json:"a"`
	B    int      `json:"b"`
	Op   Operator `json:"op"`
	Text string   `json:"text"`
}

// View hides the answer.
func (p Problem) View() ProblemView {
	return ProblemView{A: p.A, B: p.B, Op: p.Op, Text: p.String()}
}

func (p Problem) String() string {
	return fmt.Sprintf("%d %s %d = ?", p.A, p.Op, p.B)
}

func apply(a, b int, op Operator) int {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	default:
		return a * b
	}
}

func (e *Engine) newProblem() *Problem {
	span := mathOperandMax - mathOperandMin + 1
	a := mathOperandMin + e.rng.IntN(span)
	b := mathOperandMin + e.rng.IntN(span)
	op := operators[e.rng.IntN(len(operators))]
	return &Problem{A: a, B: b, Op: op, Answer: apply(a, b, op)}
}

// MathOutcome reports an answered problem. Answer is always the correct value.
type MathOutcome struct {
	Correct bool `json:"correct"`
	Answer  int  `json:"answer"`
	Points  int  `json:"points"`
	Score   int  `json:"score"`
}

// CurrentProblem returns the pending problem, generating one if none is
// pending.
func (e *Engine) CurrentProblem(s *Session) (ProblemView, error) {
	if err := e.begin(s, GameQuickMath); err != nil {
		return ProblemView{}, err
	}
	if s.Pending == nil {
		s.Pending = e.newProblem()
	}
	return s.Pending.View(), nil
}

// SubmitAnswer checks value against the pending problem. Right or wrong, the
// problem is then discarded so the next one is freshly generated.
func (e *Engine) SubmitAnswer(s *Session, value int) (MathOutcome, error) {
	if err := e.begin(s, GameQuickMath); err != nil {
		return MathOutcome{}, err
	}
	if s.Pending == nil {
		return MathOutcome{}, ErrNoProblem
	}

	out := MathOutcome{Answer: s.Pending.Answer}
	if value == s.Pending.Answer {
		out.Correct = true
		out.Points = MathPoints
		s.Score += MathPoints
	}
	s.Pending = nil
	out.Score = s.Score
	return out, nil
}
