package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arith-quiz-service/internal/domain"
	"arith-quiz-service/internal/game"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// SessionRepository abstracts how live game sessions are tracked (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	// Touch marks the session as alive; called at every round start.
	Touch(sessionID string)
	Delete(sessionID string)
	Count() int
}

// GameService runs one round controller per player session.
type GameService struct {
	sessions  SessionRepository
	clock     clockwork.Clock
	newSource func() game.Source
}

// ServiceOption configures a GameService.
type ServiceOption func(*GameService)

// WithClock makes every session use clock; tests pass a fake clock.
func WithClock(clock clockwork.Clock) ServiceOption {
	return func(s *GameService) { s.clock = clock }
}

// WithSourceFactory sets how each session obtains its randomness. A nil source means time-seeded math/rand.
func WithSourceFactory(fn func() game.Source) ServiceOption {
	return func(s *GameService) { s.newSource = fn }
}

func NewGameService(store SessionRepository, opts ...ServiceOption) *GameService {
	s := &GameService{
		sessions:  store,
		clock:     clockwork.NewRealClock(),
		newSource: func() game.Source { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession creates a controller bound to listener, starts its run loop and the first round.
// The session outlives ctx; callers end it with EndSession.
func (s *GameService) StartSession(ctx context.Context, listener game.Listener) (*Session, error) {
	id := uuid.NewString()

	var l game.Listener
	if listener != nil {
		l = &sessionListener{Listener: listener, touch: func() { s.sessions.Touch(id) }}
	}
	ctrl, err := game.NewController(l, game.WithClock(s.clock), game.WithSource(s.newSource()))
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := newSession(id, s.clock.Now(), ctrl, cancel)
	go func() {
		if err := ctrl.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("session_id", id).Msg("round controller stopped")
		}
	}()

	s.sessions.Save(session)
	if err := ctrl.StartNewRound(ctx); err != nil {
		s.EndSession(ctx, id)
		return nil, fmt.Errorf("start first round: %w", err)
	}

	log.Info().Str("session_id", id).Msg("game session started")
	return session, nil
}

// SubmitAnswer forwards a player's choice to the session's controller.
func (s *GameService) SubmitAnswer(ctx context.Context, sessionID string, value int) (domain.AnswerResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerResult{}, domain.ErrSessionNotFound
	}
	return session.controller.SubmitAnswer(ctx, value)
}

// AnimationComplete relays the presentation-complete signal; true means a new round started.
func (s *GameService) AnimationComplete(ctx context.Context, sessionID string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.controller.AnimationComplete(ctx)
}

// StartRound forces a new round regardless of the current phase.
func (s *GameService) StartRound(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.controller.StartNewRound(ctx)
}

// Snapshot returns the session's current game state.
func (s *GameService) Snapshot(ctx context.Context, sessionID string) (domain.GameState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.GameState{}, domain.ErrSessionNotFound
	}
	return session.controller.Snapshot(ctx)
}

// EndSession stops the controller and forgets the session. Unknown IDs are ignored.
func (s *GameService) EndSession(ctx context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.cancel()
	if session.controller != nil {
		select {
		case <-session.controller.Done():
		case <-ctx.Done():
		}
	}
	s.sessions.Delete(sessionID)
	log.Info().Str("session_id", sessionID).Msg("game session ended")
}

// ActiveSessions reports how many sessions are currently tracked.
func (s *GameService) ActiveSessions() int {
	return s.sessions.Count()
}

// Session is a single player's live game.
type Session struct {
	id         string
	createdAt  time.Time
	controller *game.Controller
	cancel     context.CancelFunc
}

// NewSession is exported for infrastructure tests that need a session without a running game.
func NewSession(id string, createdAt time.Time) *Session {
	return newSession(id, createdAt, nil, func() {})
}

func newSession(id string, createdAt time.Time, ctrl *game.Controller, cancel context.CancelFunc) *Session {
	return &Session{
		id:         id,
		createdAt:  createdAt,
		controller: ctrl,
		cancel:     cancel,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// sessionListener refreshes session liveness on every round start before forwarding.
type sessionListener struct {
	game.Listener
	touch func()
}

func (l *sessionListener) OnRoundStart(round domain.RoundStart) {
	l.touch()
	l.Listener.OnRoundStart(round)
}
