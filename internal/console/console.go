// Package console is the line-mode shell: a menu-driven loop over
// standard input and output that plays sessions through the session
// controller.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/plot"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/subject"
	"github.com/quizadv/quizadv/internal/tracker"
)

const rule = "-----------------------------------"

// Config wires the shell's collaborators.
type Config struct {
	// Name is the player name. When empty, Run asks for it.
	Name string

	// Generator produces questions. Sessions cannot start without one.
	Generator mcq.Generator

	// Recommender picks the next tier; nil uses the tracker rules.
	Recommender session.Recommender

	Events session.EventSink
	Logger *slog.Logger

	// Options are passed to every session controller after the ones
	// derived from the fields above.
	Options []session.Option
}

// Shell is an interactive line-mode quiz.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer
	cfg Config

	tracker *tracker.Tracker
	history []*session.Result
}

// New creates a Shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, cfg Config) *Shell {
	return &Shell{in: bufio.NewScanner(in), out: out, cfg: cfg}
}

// History returns the results of the sessions played so far.
func (s *Shell) History() []*session.Result {
	return s.history
}

// Tracker returns the player's tracker, or nil before a name is known.
func (s *Shell) Tracker() *tracker.Tracker {
	return s.tracker
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// readLine prompts and returns the trimmed next line. io.EOF is returned
// when input ends.
func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) ensureTracker() *tracker.Tracker {
	if s.tracker == nil {
		s.tracker = tracker.New(s.cfg.Name)
	}
	return s.tracker
}

// Run greets the player and loops over the main menu until they exit or
// input ends.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("%s\n  Welcome to Quiz Adventures — AI-Powered MCQ Game\n%s\n", rule, rule)

	if s.cfg.Name == "" {
		name, err := s.readLine("\nEnter your name: ")
		if err != nil {
			return ignoreEOF(err)
		}
		s.cfg.Name = name
	}
	s.printf("Hello, %s! Let's begin your learning journey.\n", s.cfg.Name)
	s.ensureTracker()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("\n%s\nChoose an option:\n  1. Start New Session\n  2. View Performance Summary\n  3. View Performance Graph\n  4. Exit\n%s\n", rule, rule)
		choice, err := s.readLine(": ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			setup, ok, err := s.chooseSetup()
			if err != nil {
				return ignoreEOF(err)
			}
			if !ok {
				continue
			}
			if _, err := s.Play(ctx, setup); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		case "2":
			s.printf("\nFetching performance data...\n")
			s.printOverall()
		case "3":
			s.printf("\nGenerating performance graph...\n\n")
			s.printf("%s\n", plot.Render(s.tracker.Series(), plot.Options{}))
		case "4":
			s.printf("\nExiting the program. Goodbye!\n")
			return nil
		default:
			s.printf("\nInvalid choice. Please try again.\n")
		}
	}
}

// chooseSetup walks the subject, topic and difficulty prompts. ok is
// false when the player picks Back or an unknown option.
func (s *Shell) chooseSetup() (setup session.Setup, ok bool, err error) {
	s.printf("\nStarting a new session...\n\n%s\nChoose subject:\n", rule)
	for i, subj := range subject.All() {
		s.printf("  %d. %s\n", i+1, subj)
	}
	s.printf("  %d. Back\n%s\n", len(subject.All())+1, rule)

	choice, err := s.readLine(": ")
	if err != nil {
		return setup, false, err
	}
	subj, known := subject.FromMenu(atoi(choice))
	if !known {
		return setup, false, nil
	}

	topic, err := s.readLine("Topic: ")
	if err != nil {
		return setup, false, err
	}

	s.printf("\n%s\nChoose difficulty level:\n", rule)
	for _, tier := range difficulty.All() {
		s.printf("  %d. %s\n", tier.Code(), tier.Title())
	}
	s.printf("  %d. Back\n%s\n", len(difficulty.All())+1, rule)

	choice, err = s.readLine(": ")
	if err != nil {
		return setup, false, err
	}
	tier, known := difficulty.FromCode(atoi(choice))
	if !known {
		return setup, false, nil
	}

	return session.Setup{Subject: subj, Topic: topic, Level: tier}, true, nil
}

// Play runs one session and prints its summary. A session that ends
// early still prints the summary of what was played.
func (s *Shell) Play(ctx context.Context, setup session.Setup) (*session.Result, error) {
	if s.cfg.Generator == nil {
		s.printf("\nQuestion generator unavailable: configure an LLM provider to play.\n")
		return nil, errors.New("no question generator configured")
	}

	var opts []session.Option
	if s.cfg.Recommender != nil {
		opts = append(opts, session.WithRecommender(s.cfg.Recommender))
	}
	if s.cfg.Events != nil {
		opts = append(opts, session.WithEventSink(s.cfg.Events))
	}
	if s.cfg.Logger != nil {
		opts = append(opts, session.WithLogger(s.cfg.Logger))
	}
	opts = append(opts, s.cfg.Options...)

	ctrl := session.NewController(s.cfg.Generator, s.ensureTracker(), opts...)
	res, err := ctrl.Run(ctx, setup, &presenter{shell: s})
	if err != nil {
		s.printf("\nSession ended early: %v\n", err)
	}
	s.history = append(s.history, res)
	s.printResult(res)
	return res, err
}

func (s *Shell) printResult(res *session.Result) {
	sum := res.Summary
	s.printf("\n%s\n", strings.Repeat("-", 74))
	s.printf("Performance Summary for %s\n", s.tracker.Name)
	s.printf("%s\n", strings.Repeat("-", 74))
	s.printf("  Subject: %s\n", res.Subject)
	s.printf("  Difficulty: %s\n", res.FinalLevel)
	s.printf("  Total Questions: %d\n", res.Attempted)
	s.printf("  Correct Answers: %d\n", res.Correct)
	s.printf("  Accuracy: %.2f%%\n", sum.AccuracyPercent())
	s.printf("  Average Time per Question: %.2fs\n", sum.AvgTime.Seconds())
	s.printf("  Recommended Next Level: %s\n", sum.RecommendedLevel)
	s.printf("  Total Duration: %.2fs\n", res.Duration.Seconds())
	s.printf("%s\n  Great job! Returning to main menu...\n%s\n", strings.Repeat("-", 74), strings.Repeat("-", 74))
}

func (s *Shell) printOverall() {
	sum := s.tracker.Summary()
	s.printf("\n%s\n  Session Summary:\n%s\n", strings.Repeat("-", 74), strings.Repeat("-", 74))
	s.printf("  Sessions Played: %d\n", len(s.history))
	s.printf("  Total Attempts: %d\n", sum.TotalAttempts)
	s.printf("  Correct Answers: %d\n", sum.CorrectAnswers)
	s.printf("  Accuracy: %.2f%%\n", sum.AccuracyPercent())
	s.printf("  Average Time: %.2fs\n", sum.AvgTime.Seconds())
	s.printf("  Recommended Next Level: %s\n", sum.RecommendedLevel)
	s.printf("%s\n", strings.Repeat("-", 74))
}

// presenter adapts the shell to session.Presenter.
type presenter struct {
	shell  *Shell
	rounds int
}

func (p *presenter) Start(st *session.State) {
	p.rounds = st.Rounds
	p.shell.printf("\nSession started: %s (%s)\n", st.Setup.Subject, st.Setup.Level.Title())
	p.shell.printf("You will be asked %d questions.\n", st.Rounds)
}

func (p *presenter) header(round int) {
	p.shell.printf("\n%s\nQ%d of %d\n", rule, round, p.rounds)
}

func (p *presenter) Ask(ctx context.Context, round int, q *mcq.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.header(round)
	p.shell.printf("\nQuestion: %s\n", q.Text)
	for i, c := range q.Choices {
		p.shell.printf("  %d. %s\n", i+1, c)
	}
	return p.shell.readLine(fmt.Sprintf("\nYour answer (1-%d): ", len(q.Choices)))
}

func (p *presenter) Feedback(fb session.Feedback) {
	if fb.Correct {
		p.shell.printf("\n✅ Correct!\n")
	} else {
		p.shell.printf("\n❌ Wrong.\n")
		p.shell.printf("Correct answer: %s\n", fb.CorrectAnswer())
	}
	p.shell.printf("Explanation: %s\n", fb.Explanation())
	if fb.NextLevel != fb.PreviousLevel {
		p.shell.printf("Next question: %s\n", fb.NextLevel.Title())
	}
}

func (p *presenter) Skipped(round int, reason string) {
	p.header(round)
	p.shell.printf("Invalid MCQ generated: %s\n", reason)
	p.shell.printf("Skipping question...\n")
}

// atoi returns 0 for anything that is not a plain integer, which no
// menu accepts.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
