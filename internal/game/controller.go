package game

import (
	"context"
	"time"

	"arith-quiz-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Listener is the presentation collaborator. All methods are called from the controller's run
// loop, one at a time, and must not call back into the controller synchronously.
type Listener interface {
	OnRoundStart(round domain.RoundStart)
	OnTick(timeLeft int)
	OnAnswerResult(result domain.AnswerResult)
	OnTimeout()
	OnFeedback(feedback domain.Feedback)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the real clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithSource sets the randomness provider used for equations and options.
func WithSource(src Source) Option {
	return func(c *Controller) { c.src = src }
}

// WithRules overrides DefaultRules.
func WithRules(rules Rules) Option {
	return func(c *Controller) { c.rules = rules }
}

type command struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

type timerEvent struct {
	expired   bool
	remaining int
}

// Controller is the round state machine. Every transition executes on the goroutine running
// Run, so game state needs no locking: exported methods post a command and wait for it.
type Controller struct {
	rules     Rules
	clock     clockwork.Clock
	src       Source
	listener  Listener
	equations *EquationGenerator
	options   *OptionSetGenerator
	timer     *RoundTimer

	commands chan command
	events   chan timerEvent
	stopped  chan struct{}

	// owned by the run loop
	state           domain.GameState
	equation        *domain.Equation
	choices         []int
	awaitingAdvance bool
	advance         clockwork.Timer
}

// NewController builds an idle controller. A listener is mandatory.
func NewController(listener Listener, opts ...Option) (*Controller, error) {
	if listener == nil {
		return nil, domain.ErrMissingListener
	}
	c := &Controller{
		rules:    DefaultRules(),
		clock:    clockwork.NewRealClock(),
		listener: listener,
		commands: make(chan command),
		events:   make(chan timerEvent),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	rnd := NewRandomRange(c.src)
	c.equations = NewEquationGenerator(rnd)
	c.options = NewOptionSetGenerator(rnd)
	c.timer = NewRoundTimer(c.clock)
	c.state = domain.GameState{
		TimeLeft: c.rules.RoundSeconds,
		Phase:    domain.PhaseIdle,
	}
	return c, nil
}

// Run processes commands, timer events and delayed round starts until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.stopped)
	for {
		var advanceC <-chan time.Time
		if c.advance != nil {
			advanceC = c.advance.Chan()
		}

		select {
		case <-ctx.Done():
			c.timer.Cancel()
			c.stopAdvance()
			return ctx.Err()
		case cmd := <-c.commands:
			cmd.fn(ctx)
			close(cmd.done)
		case ev := <-c.events:
			if ev.expired {
				c.handleExpire()
			} else {
				c.handleTick(ev.remaining)
			}
		case <-advanceC:
			c.advance = nil
			c.startNewRound(ctx)
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.stopped
}

// StartNewRound begins a new round from any state.
func (c *Controller) StartNewRound(ctx context.Context) error {
	return c.do(ctx, c.startNewRound)
}

// SubmitAnswer applies the player's choice. Submissions while locked or before the first round
// are ignored and reported with Ignored set.
func (c *Controller) SubmitAnswer(ctx context.Context, value int) (domain.AnswerResult, error) {
	var result domain.AnswerResult
	err := c.do(ctx, func(context.Context) {
		result = c.submit(value)
	})
	return result, err
}

// AnimationComplete signals that the correct-answer presentation finished. It starts the next
// round and returns true only while a correct answer is awaiting that signal.
func (c *Controller) AnimationComplete(ctx context.Context) (bool, error) {
	var advanced bool
	err := c.do(ctx, func(runCtx context.Context) {
		if c.state.Phase != domain.PhaseResolving || !c.awaitingAdvance {
			return
		}
		advanced = true
		c.startNewRound(runCtx)
	})
	return advanced, err
}

// Snapshot returns a copy of the current game state.
func (c *Controller) Snapshot(ctx context.Context) (domain.GameState, error) {
	var state domain.GameState
	err := c.do(ctx, func(context.Context) {
		state = c.state
		state.TimerActive = c.timer.Running()
	})
	return state, err
}

func (c *Controller) do(ctx context.Context, fn func(ctx context.Context)) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case c.commands <- cmd:
	case <-c.stopped:
		return domain.ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-cmd.done
	return nil
}

func (c *Controller) startNewRound(ctx context.Context) {
	c.timer.Cancel()
	c.stopAdvance()

	c.state.Round++
	c.state.TimeLeft = c.rules.RoundSeconds
	c.state.Locked = false
	c.state.Phase = domain.PhaseActive
	c.awaitingAdvance = false

	eq := c.equations.Generate()
	c.equation = &eq
	c.choices = c.options.Generate(eq, c.rules.OptionCount)

	log.Debug().
		Int("round", c.state.Round).
		Int("score", c.state.Score).
		Str("equation", eq.String()).
		Ints("options", c.choices).
		Msg("round started")

	c.listener.OnFeedback(domain.Feedback{})
	c.listener.OnRoundStart(domain.RoundStart{
		Round:    c.state.Round,
		Score:    c.state.Score,
		TimeLeft: c.state.TimeLeft,
		Equation: eq,
		Options:  append([]int(nil), c.choices...),
	})
	c.timer.Start(ctx, c.rules.RoundSeconds, c.postTick, c.postExpire)
}

func (c *Controller) submit(value int) domain.AnswerResult {
	if c.state.Locked || c.equation == nil {
		return domain.AnswerResult{
			Value:   value,
			Ignored: true,
			Score:   c.state.Score,
			Round:   c.state.Round,
		}
	}

	result := domain.AnswerResult{Value: value, Round: c.state.Round}
	feedback := domain.FeedbackIncorrect
	if value == c.equation.Answer {
		c.state.Locked = true
		c.state.Phase = domain.PhaseResolving
		c.state.Score += c.rules.CorrectReward
		c.awaitingAdvance = true
		c.timer.Cancel()
		result.Correct = true
		feedback = domain.FeedbackCorrect
	} else {
		c.state.Score = max(0, c.state.Score-c.rules.IncorrectPenalty)
	}
	result.Score = c.state.Score

	log.Debug().
		Int("round", c.state.Round).
		Int("value", value).
		Bool("correct", result.Correct).
		Int("score", result.Score).
		Msg("answer submitted")

	c.listener.OnAnswerResult(result)
	c.listener.OnFeedback(feedback)
	return result
}

func (c *Controller) handleTick(remaining int) {
	c.state.TimeLeft = remaining
	c.listener.OnTick(remaining)
}

func (c *Controller) handleExpire() {
	if c.state.Locked {
		return
	}
	c.state.Locked = true
	c.state.Phase = domain.PhaseResolving

	log.Debug().Int("round", c.state.Round).Msg("round expired")

	c.listener.OnTimeout()
	c.listener.OnFeedback(domain.FeedbackTimeUp)
	c.advance = c.clock.NewTimer(c.rules.TimeoutAdvanceDelay)
}

// stopAdvance stops and drains the pending post-timeout round start.
func (c *Controller) stopAdvance() {
	if c.advance == nil {
		return
	}
	if !c.advance.Stop() {
		select {
		case <-c.advance.Chan():
		default:
		}
	}
	c.advance = nil
}

// postTick and postExpire run on the timer goroutine and hand the event to the run loop.
func (c *Controller) postTick(ctx context.Context, remaining int) {
	c.post(ctx, timerEvent{remaining: remaining})
}

func (c *Controller) postExpire(ctx context.Context) {
	c.post(ctx, timerEvent{expired: true})
}

func (c *Controller) post(ctx context.Context, ev timerEvent) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
