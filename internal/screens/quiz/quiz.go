// Package quiz is the screen that plays one session: it asks each
// question, shows feedback and hands the result to the summary screen.
package quiz

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screen"
	"github.com/quizadv/quizadv/internal/screens/summary"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/tracker"
	"github.com/quizadv/quizadv/internal/ui/components"
	"github.com/quizadv/quizadv/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
)

// Config wires the quiz to its collaborators.
type Config struct {
	Generator mcq.Generator
	Tracker   *tracker.Tracker
	Options   []session.Option

	// OnFinish receives the result once the session ends.
	OnFinish func(*session.Result)

	// Now measures answer time. Defaults to time.Now.
	Now func() time.Time
}

// QuizScreen implements screen.Screen for an active session.
type QuizScreen struct {
	ctrl     *session.Controller
	setup    session.Setup
	player   string
	onFinish func(*session.Result)
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// state is only touched on the update loop or by the single
	// generate command in flight, never both at once.
	state *session.State

	phase    phase
	round    int
	rounds   int
	question *mcq.Question
	choices  components.MultiChoice
	track    components.RoundTrack
	asked    time.Time
	clock    time.Duration
	tickID   int
	feedback session.Feedback
	notice   string

	confirmQuit bool
	quitting    bool
	finished    bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a QuizScreen for setup. The session starts when the screen
// is first initialised.
func New(setup session.Setup, cfg Config) *QuizScreen {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &QuizScreen{
		ctrl:     session.NewController(cfg.Generator, cfg.Tracker, cfg.Options...),
		setup:    setup,
		player:   cfg.Tracker.Name,
		onFinish: cfg.OnFinish,
		now:      now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.state = s.ctrl.Begin(s.ctx, s.setup)
	s.rounds = s.state.Rounds
	s.track = components.NewRoundTrack(s.rounds)
	return s.generate()
}

func (s *QuizScreen) Title() string {
	return fmt.Sprintf("%s (%s)", s.setup.Subject, s.setup.Level.Title())
}

func (s *QuizScreen) Status() string {
	if s.state == nil || s.phase == phaseLoading {
		return ""
	}
	return fmt.Sprintf("%d/%d correct  ", s.state.Correct, s.state.Attempted)
}

func (s *QuizScreen) HandlesEscape() bool {
	return true
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.phase == phaseQuestion:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionMsg:
		return s.handleQuestion(msg)

	case clockTickMsg:
		if msg.ID != s.tickID || s.phase != phaseQuestion {
			return s, nil
		}
		s.clock = s.now().Sub(s.asked)
		return s, s.tick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// generate runs the generator off the update loop. The state is only
// read here; handleQuestion applies the result.
func (s *QuizScreen) generate() tea.Cmd {
	input, err := s.ctrl.Request(s.state)
	if err != nil {
		return s.finish("")
	}
	s.phase = phaseLoading
	ctx, ctrl := s.ctx, s.ctrl
	return func() tea.Msg {
		payload, err := ctrl.Generate(ctx, input)
		return questionMsg{Input: input, Payload: payload, Err: err}
	}
}

func (s *QuizScreen) tick() tea.Cmd {
	id := s.tickID
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockTickMsg{ID: id}
	})
}

func (s *QuizScreen) handleQuestion(msg questionMsg) (screen.Screen, tea.Cmd) {
	if s.quitting || s.ctx.Err() != nil {
		return s, s.finish("")
	}

	q, err := s.ctrl.Accept(s.ctx, s.state, msg.Input, msg.Payload, msg.Err)
	s.round = s.state.Round
	if err != nil {
		if !s.ctrl.Recoverable(err) {
			return s, s.finish(fmt.Sprintf("Session ended early: %v", err))
		}
		s.track.Set(s.round, components.Skipped)
		s.notice = fmt.Sprintf("Q%d: Invalid MCQ generated: %s. Skipping question...", s.round, session.SkipReason(err))
		if s.state.Done() {
			return s, s.finish("")
		}
		return s, s.generate()
	}

	s.track.Set(s.round, components.Current)
	s.question = q
	s.choices = components.NewMultiChoice(q.Text, q.Choices, q.AnswerIndex)
	s.asked = s.now()
	s.clock = 0
	s.tickID++
	s.phase = phaseQuestion
	return s, s.tick()
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			if s.phase == phaseLoading {
				// The generate command still owns the state; finish when it returns.
				s.quitting = true
				s.cancel()
				return s, nil
			}
			return s, s.finish("")
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	switch s.phase {
	case phaseQuestion:
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		if s.choices.Submitted {
			s.answer()
			return s, nil
		}
		return s, cmd

	case phaseFeedback:
		s.notice = ""
		if s.state.Done() {
			return s, s.finish("")
		}
		return s, s.generate()
	}

	return s, nil
}

func (s *QuizScreen) answer() {
	elapsed := s.now().Sub(s.asked)
	s.feedback = s.ctrl.Answer(s.ctx, s.state, s.question, s.choices.ChosenIndex, elapsed)
	if s.feedback.Correct {
		s.track.Set(s.round, components.Right)
	} else {
		s.track.Set(s.round, components.Wrong)
	}
	s.phase = phaseFeedback
	s.notice = ""
}

// finish closes the session and replaces this screen with its summary.
func (s *QuizScreen) finish(note string) tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	res := s.ctrl.Finish(s.ctx, s.state)
	s.cancel()
	if s.onFinish != nil {
		s.onFinish(res)
	}
	next := summary.NewResult(res, s.player, note)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}
