package game

import "time"

const (
	// OptionCount is how many candidate answers a round offers.
	OptionCount = 4
	// RoundSeconds is the countdown length of every round.
	RoundSeconds = 20
	// CorrectReward is added to the score for a correct answer.
	CorrectReward = 10
	// IncorrectPenalty is subtracted for a wrong answer; the score never drops below zero.
	IncorrectPenalty = 2
	// TimeoutAdvanceDelay keeps the "time's up" feedback visible before the next round.
	TimeoutAdvanceDelay = time.Second
	// MaxOptionAttempts bounds random distractor sampling before the deterministic fill kicks in.
	MaxOptionAttempts = 1000
)

// Rules groups the fixed round parameters a controller runs with.
type Rules struct {
	OptionCount         int
	RoundSeconds        int
	CorrectReward       int
	IncorrectPenalty    int
	TimeoutAdvanceDelay time.Duration
}

// DefaultRules returns the standard game rules.
func DefaultRules() Rules {
	return Rules{
		OptionCount:         OptionCount,
		RoundSeconds:        RoundSeconds,
		CorrectReward:       CorrectReward,
		IncorrectPenalty:    IncorrectPenalty,
		TimeoutAdvanceDelay: TimeoutAdvanceDelay,
	}
}
