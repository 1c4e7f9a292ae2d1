package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"arith-quiz-service/internal/app"
	"arith-quiz-service/internal/config"
	"arith-quiz-service/internal/domain"
	"arith-quiz-service/internal/infra/memory"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a single game session in the terminal.
func NewPlayCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := setupLogging(cfg, *logLevel, "warn", true); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			service := app.NewGameService(memory.NewSessionStore())
			return runPlay(ctx, service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runPlay drives one session from line-based input until EOF, "q" or ctx is done.
func runPlay(ctx context.Context, service *app.GameService, in io.Reader, out io.Writer) error {
	p := &presenter{out: out}
	session, err := service.StartSession(ctx, p)
	if err != nil {
		return err
	}
	defer service.EndSession(context.Background(), session.ID())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || line == "q" || line == "quit" {
				state, err := service.Snapshot(ctx, session.ID())
				if err != nil {
					return fmt.Errorf("final snapshot: %w", err)
				}
				p.printf("\nFinal score: %d after %d rounds\n", state.Score, state.Round)
				return nil
			}
			if line == "" {
				continue
			}

			value, err := strconv.Atoi(line)
			if err != nil {
				p.printf("Enter one of the options, or q to quit\n")
				continue
			}
			res, err := service.SubmitAnswer(ctx, session.ID(), value)
			if err != nil {
				return fmt.Errorf("submit answer: %w", err)
			}
			// nothing to animate in a terminal
			if res.Correct {
				if _, err := service.AnimationComplete(ctx, session.ID()); err != nil {
					return fmt.Errorf("next round: %w", err)
				}
			}
		}
	}
}

// presenter renders engine events as plain text.
type presenter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *presenter) OnRoundStart(round domain.RoundStart) {
	options := make([]string, len(round.Options))
	for i, v := range round.Options {
		options[i] = strconv.Itoa(v)
	}
	p.printf("\nRound %d | Score %d | %ds\n%s\nOptions: %s\n",
		round.Round, round.Score, round.TimeLeft, round.Equation, strings.Join(options, "  "))
}

func (p *presenter) OnTick(timeLeft int) {
	if timeLeft == 10 || (timeLeft > 0 && timeLeft <= 3) {
		p.printf("%ds left\n", timeLeft)
	}
}

func (p *presenter) OnAnswerResult(result domain.AnswerResult) {
	p.printf("Score %d\n", result.Score)
}

// OnTimeout is covered by the timeout feedback message.
func (p *presenter) OnTimeout() {}

func (p *presenter) OnFeedback(feedback domain.Feedback) {
	if feedback.Message != "" {
		p.printf("%s\n", feedback.Message)
	}
}

func (p *presenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}
