package domain

import "fmt"

// OperatorAdd is the only operator the generator currently produces.
const OperatorAdd = "+"

// Equation is a single arithmetic challenge. Values are replaced, never mutated, between rounds.
type Equation struct {
	A        int    `json:"a"`
	B        int    `json:"b"`
	Operator string `json:"operator"`
	Answer   int    `json:"-"`
}

// String renders the equation the way it is shown to the player, e.g. "3 + 4 = ?".
func (e Equation) String() string {
	return fmt.Sprintf("%d %s %d = ?", e.A, e.Operator, e.B)
}

// Phase is the lifecycle stage of the current round.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseActive    Phase = "active"
	PhaseResolving Phase = "resolving"
)

// GameState is a point-in-time copy of a session's state.
type GameState struct {
	Score       int   `json:"score"`
	Round       int   `json:"round"`
	TimeLeft    int   `json:"timeLeft"`
	Locked      bool  `json:"locked"`
	TimerActive bool  `json:"timerActive"`
	Phase       Phase `json:"phase"`
}

// RoundStart is emitted every time a new round begins.
type RoundStart struct {
	Round    int      `json:"round"`
	Score    int      `json:"score"`
	TimeLeft int      `json:"timeLeft"`
	Equation Equation `json:"equation"`
	Options  []int    `json:"options"`
}

// AnswerResult summarizes the outcome of a submission.
// Ignored is set when the submission arrived while the round was locked or not yet started.
type AnswerResult struct {
	Value   int  `json:"value"`
	Correct bool `json:"correct"`
	Ignored bool `json:"ignored,omitempty"`
	Score   int  `json:"score"`
	Round   int  `json:"round"`
}

// FeedbackKind classifies a feedback message.
type FeedbackKind string

const (
	FeedbackNone    FeedbackKind = ""
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
	FeedbackTimeout FeedbackKind = "timeout"
)

// Feedback is the player-facing message for the latest outcome. The zero value clears it.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}

var (
	FeedbackCorrect   = Feedback{Kind: FeedbackSuccess, Message: "Correct!"}
	FeedbackIncorrect = Feedback{Kind: FeedbackError, Message: "Not quite, try again"}
	FeedbackTimeUp    = Feedback{Kind: FeedbackTimeout, Message: "Time's up! Next problem"}
)
