package session

import (
	"time"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/subject"
	"github.com/quizadv/quizadv/internal/tracker"
)

// Setup is what the player chose before a session starts.
type Setup struct {
	Subject subject.Subject
	Topic   string
	Level   difficulty.Tier
}

// State tracks one session in progress. It is owned by a single
// goroutine; the TUI applies answers on its update loop only.
type State struct {
	// ID is the UUID for this session.
	ID    string
	Setup Setup

	// Rounds is the number of round slots in the session.
	Rounds int

	// Round is the number of slots consumed so far, including skipped ones.
	Round int

	// Level is the tier the next question is generated at.
	Level difficulty.Tier

	Attempted int
	Correct   int
	Skipped   int

	StartTime time.Time

	prior    []string
	finished *Result
}

// Done reports whether every round slot has been consumed.
func (s *State) Done() bool {
	return s.Round >= s.Rounds
}

// PriorQuestions returns the question texts generated so far, oldest first.
func (s *State) PriorQuestions() []string {
	return append([]string(nil), s.prior...)
}

// AccuracyPercent is the share of attempted questions answered correctly
// in this session, 0..100.
func (s *State) AccuracyPercent() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted) * 100
}

// Decision sources for Feedback.Source.
const (
	SourceModel = "model"
	SourceRules = "rules"
)

// Feedback describes the outcome of one answered question.
type Feedback struct {
	Round    int
	Question *mcq.Question

	// Choice is the zero-based option picked, or -1 for unusable input.
	Choice  int
	Correct bool
	Elapsed time.Duration

	PreviousLevel difficulty.Tier
	NextLevel     difficulty.Tier

	// Source says whether NextLevel came from the model or the rules.
	Source string
}

// CorrectAnswer returns the text of the correct option.
func (f Feedback) CorrectAnswer() string {
	return f.Question.CorrectChoice()
}

// Explanation returns the question's explanation, or "N/A" when empty.
func (f Feedback) Explanation() string {
	if f.Question.Explanation == "" {
		return "N/A"
	}
	return f.Question.Explanation
}

// Result is the outcome of a finished (or aborted) session.
type Result struct {
	SessionID  string
	Subject    subject.Subject
	Topic      string
	StartLevel difficulty.Tier
	FinalLevel difficulty.Tier

	Rounds    int
	Attempted int
	Correct   int
	Skipped   int
	Duration  time.Duration

	// Summary is the tracker's view after the session, across every
	// session the tracker has recorded.
	Summary tracker.Summary
}

// AccuracyPercent is the session's own accuracy, 0..100.
func (r *Result) AccuracyPercent() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempted) * 100
}
