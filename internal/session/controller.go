// Package session runs adaptive quiz sessions: it asks a generator for a
// question at the current tier, validates it, records the answer in a
// tracker and picks the tier of the next question.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/predictor"
	"github.com/quizadv/quizadv/internal/store"
	"github.com/quizadv/quizadv/internal/tracker"
)

const (
	// DefaultRounds is the number of round slots in a session.
	DefaultRounds = 5

	// DefaultPriorWindow is how many previous questions are sent to the
	// generator for deduplication.
	DefaultPriorWindow = 10
)

// Recommender predicts the next tier label from performance features.
// *predictor.Predictor satisfies it.
type Recommender interface {
	PredictLabel(f predictor.Features) int
}

// EventSink receives the audit trail of a session. store.EventRepo
// satisfies it.
type EventSink interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAttemptEvent(ctx context.Context, data store.AttemptEventData) error
}

// GenerationPolicy decides what a generator failure does to a session.
type GenerationPolicy int

const (
	// AbortOnGenerationError ends the session and returns the error
	// alongside the partial result.
	AbortOnGenerationError GenerationPolicy = iota

	// SkipOnGenerationError treats the failure like an invalid question.
	SkipOnGenerationError
)

// Option configures a Controller.
type Option func(*Controller)

// WithRecommender sets the model that picks the next tier. A nil
// recommender leaves the decision to the tracker's rules.
func WithRecommender(r Recommender) Option {
	return func(c *Controller) { c.recommender = r }
}

// WithValidators replaces the default validation chain.
func WithValidators(v ...mcq.Validator) Option {
	return func(c *Controller) { c.validators = v }
}

// WithEventSink records session and attempt events.
func WithEventSink(s EventSink) Option {
	return func(c *Controller) { c.sink = s }
}

// WithLogger sets the logger for skips and fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRounds sets the number of round slots per session.
func WithRounds(n int) Option {
	return func(c *Controller) { c.rounds = n }
}

// WithPriorWindow sets how many prior questions reach the generator.
func WithPriorWindow(n int) Option {
	return func(c *Controller) { c.priorWindow = n }
}

// WithGenerationPolicy decides whether generator errors abort the session.
func WithGenerationPolicy(p GenerationPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// Controller drives sessions against one tracker.
type Controller struct {
	gen         mcq.Generator
	tracker     *tracker.Tracker
	recommender Recommender
	validators  []mcq.Validator
	sink        EventSink
	logger      *slog.Logger
	now         func() time.Time
	rounds      int
	priorWindow int
	policy      GenerationPolicy
}

// NewController creates a Controller. The tracker is shared across every
// session the controller runs.
func NewController(gen mcq.Generator, tr *tracker.Tracker, opts ...Option) *Controller {
	c := &Controller{
		gen:         gen,
		tracker:     tr,
		validators:  mcq.DefaultValidators(),
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		rounds:      DefaultRounds,
		priorWindow: DefaultPriorWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rounds < 0 {
		c.rounds = 0
	}
	return c
}

// Tracker returns the tracker answers are recorded in.
func (c *Controller) Tracker() *tracker.Tracker {
	return c.tracker
}

// Begin starts a session at setup.Level (Easy when unset).
func (c *Controller) Begin(ctx context.Context, setup Setup) *State {
	if !setup.Level.Valid() {
		setup.Level = difficulty.Easy
	}
	st := &State{
		ID:        uuid.NewString(),
		Setup:     setup,
		Rounds:    c.rounds,
		Level:     setup.Level,
		StartTime: c.now(),
	}
	c.logger.Debug("session started", "session", st.ID, "subject", setup.Subject, "level", setup.Level)
	c.emitSession(ctx, store.SessionEventData{
		SessionID: st.ID,
		Action:    store.SessionStart,
		Name:      c.tracker.Name,
		Subject:   string(setup.Subject),
		Topic:     setup.Topic,
		Level:     setup.Level.String(),
		Rounds:    st.Rounds,
	})
	return st
}

// Next consumes one round slot and returns its question.
//
// A *mcq.ValidationError means the question was rejected: the slot is
// used up, nothing is recorded and the tier stays. Any other error comes
// from the generator; under SkipOnGenerationError it is counted as a
// skip too. Context errors leave the slot unconsumed.
func (c *Controller) Next(ctx context.Context, st *State) (*mcq.Question, error) {
	input, err := c.Request(st)
	if err != nil {
		return nil, err
	}
	payload, err := c.Generate(ctx, input)
	return c.Accept(ctx, st, input, payload, err)
}

// Request builds the generator input for the next round. It only reads st.
func (c *Controller) Request(st *State) (mcq.GenerateInput, error) {
	if st.Done() {
		return mcq.GenerateInput{}, fmt.Errorf("session %s: all %d rounds used", st.ID, st.Rounds)
	}
	return mcq.GenerateInput{
		Subject:        st.Setup.Subject,
		Level:          st.Level,
		Topic:          st.Setup.Topic,
		PriorQuestions: slices.Clone(mcq.RecentQuestions(st.prior, c.priorWindow)),
	}, nil
}

// Generate calls the generator and touches no session state, so it may
// run off the goroutine that owns the State.
func (c *Controller) Generate(ctx context.Context, input mcq.GenerateInput) (mcq.Payload, error) {
	return c.gen.Generate(ctx, input)
}

// Accept applies the outcome of Generate to st, with the semantics
// described on Next.
func (c *Controller) Accept(ctx context.Context, st *State, input mcq.GenerateInput, payload mcq.Payload, genErr error) (*mcq.Question, error) {
	if genErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		st.Round++
		if c.policy == SkipOnGenerationError {
			st.Skipped++
		}
		c.logger.Warn("question generation failed", "session", st.ID, "round", st.Round, "error", genErr)
		return nil, genErr
	}

	st.Round++
	if text := payload.QuestionText(); text != "" {
		st.prior = append(st.prior, text)
	}

	if verr := mcq.ValidateWith(payload, c.validators); verr != nil {
		st.Skipped++
		c.logger.Info("invalid question skipped", "session", st.ID, "round", st.Round, "reason", verr.Reason)
		return nil, verr
	}
	q, err := mcq.Decode(payload, input)
	if err != nil {
		st.Skipped++
		c.logger.Info("invalid question skipped", "session", st.ID, "round", st.Round, "error", err)
		return nil, err
	}
	return q, nil
}

// ParseChoice converts a 1-based answer typed by the player into a
// zero-based choice, or -1 when the input is not a number in range.
func ParseChoice(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > mcq.NumChoices {
		return -1
	}
	return n - 1
}

// Answer records the player's zero-based choice (-1 when unusable, which
// counts as wrong) for q and moves st to the next tier.
func (c *Controller) Answer(ctx context.Context, st *State, q *mcq.Question, choice int, elapsed time.Duration) Feedback {
	if elapsed < 0 {
		elapsed = 0
	}
	correct := choice >= 0 && q.IsCorrect(choice)

	c.tracker.Record(st.Level, correct, elapsed)
	st.Attempted++
	if correct {
		st.Correct++
	}

	fb := Feedback{
		Round:         st.Round,
		Question:      q,
		Choice:        choice,
		Correct:       correct,
		Elapsed:       elapsed,
		PreviousLevel: st.Level,
	}
	fb.NextLevel, fb.Source = c.nextLevel(st, elapsed)
	st.Level = fb.NextLevel

	learner := ""
	if choice >= 0 && choice < len(q.Choices) {
		learner = q.Choices[choice]
	}
	c.emitAttempt(ctx, store.AttemptEventData{
		SessionID:     st.ID,
		Round:         st.Round,
		Subject:       string(st.Setup.Subject),
		Topic:         st.Setup.Topic,
		Level:         fb.PreviousLevel.String(),
		QuestionText:  q.Text,
		CorrectAnswer: q.CorrectChoice(),
		LearnerAnswer: learner,
		Correct:       correct,
		TimeMs:        elapsed.Milliseconds(),
		NextLevel:     fb.NextLevel.String(),
	})
	return fb
}

// nextLevel asks the recommender when there is one and falls back to the
// tracker's rules otherwise. Labels other than 1 and 2 mean Hard.
func (c *Controller) nextLevel(st *State, elapsed time.Duration) (difficulty.Tier, string) {
	if c.recommender != nil {
		label := c.recommender.PredictLabel(predictor.Features{
			Subject:     st.Setup.Subject,
			AccuracyPct: st.AccuracyPercent(),
			AvgTime:     elapsed,
			Streak:      c.tracker.Streak(),
			Level:       c.tracker.CurrentLevel(),
		})
		return difficulty.FromLabel(label), SourceModel
	}
	return c.tracker.RecommendedLevel(c.tracker.CurrentLevel()), SourceRules
}

// Finish closes the session and returns its result. Calling it again
// returns the same result.
func (c *Controller) Finish(ctx context.Context, st *State) *Result {
	if st.finished != nil {
		return st.finished
	}
	res := &Result{
		SessionID:  st.ID,
		Subject:    st.Setup.Subject,
		Topic:      st.Setup.Topic,
		StartLevel: st.Setup.Level,
		FinalLevel: st.Level,
		Rounds:     st.Round,
		Attempted:  st.Attempted,
		Correct:    st.Correct,
		Skipped:    st.Skipped,
		Duration:   c.now().Sub(st.StartTime),
		Summary:    c.tracker.Summary(),
	}
	st.finished = res

	c.logger.Debug("session finished", "session", st.ID, "attempted", res.Attempted, "skipped", res.Skipped)
	c.emitSession(context.WithoutCancel(ctx), store.SessionEventData{
		SessionID:    st.ID,
		Action:       store.SessionEnd,
		Name:         c.tracker.Name,
		Subject:      string(st.Setup.Subject),
		Topic:        st.Setup.Topic,
		Level:        res.FinalLevel.String(),
		Rounds:       res.Rounds,
		Attempted:    res.Attempted,
		Correct:      res.Correct,
		Skipped:      res.Skipped,
		DurationSecs: res.Duration.Seconds(),
	})
	return res
}

func (c *Controller) emitSession(ctx context.Context, data store.SessionEventData) {
	if c.sink == nil {
		return
	}
	if err := c.sink.AppendSessionEvent(ctx, data); err != nil {
		c.logger.Warn("failed to log session event", "action", data.Action, "error", err)
	}
}

func (c *Controller) emitAttempt(ctx context.Context, data store.AttemptEventData) {
	if c.sink == nil {
		return
	}
	if err := c.sink.AppendAttemptEvent(ctx, data); err != nil {
		c.logger.Warn("failed to log attempt event", "round", data.Round, "error", err)
	}
}

// IsSkip reports whether err from Next only rejected the question, so
// the session can continue.
func IsSkip(err error) bool {
	var verr *mcq.ValidationError
	return errors.As(err, &verr)
}

// Recoverable reports whether a session can carry on after err from Next.
func (c *Controller) Recoverable(err error) bool {
	return IsSkip(err) || c.policy == SkipOnGenerationError
}
