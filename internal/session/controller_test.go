package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/predictor"
	"github.com/quizadv/quizadv/internal/store"
	"github.com/quizadv/quizadv/internal/subject"
	"github.com/quizadv/quizadv/internal/tracker"
)

type genStep struct {
	json string
	err  error
}

type scriptedGenerator struct {
	steps  []genStep
	inputs []mcq.GenerateInput
}

func (g *scriptedGenerator) Generate(ctx context.Context, in mcq.GenerateInput) (mcq.Payload, error) {
	g.inputs = append(g.inputs, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(g.steps) == 0 {
		return nil, errors.New("script exhausted")
	}
	step := g.steps[0]
	g.steps = g.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	return mcq.ParsePayload([]byte(step.json))
}

// validStep is a question whose correct answer is "2".
func validStep(n int) genStep {
	return genStep{json: fmt.Sprintf(`{"question":"Q%d?","choices":["A","B","C","D"],"answer_index":1,"explanation":"because","difficulty_score":5}`, n)}
}

func threeChoiceStep(n int) genStep {
	return genStep{json: fmt.Sprintf(`{"question":"Bad%d?","choices":["A","B","C"],"answer_index":1,"explanation":"","difficulty_score":5}`, n)}
}

func duplicateChoiceStep(n int) genStep {
	return genStep{json: fmt.Sprintf(`{"question":"Dup%d?","choices":["A","A","C","D"],"answer_index":1,"explanation":"","difficulty_score":5}`, n)}
}

type scriptedPresenter struct {
	answers  []string
	started  *State
	feedback []Feedback
	skipped  []string
}

func (p *scriptedPresenter) Start(st *State) { p.started = st }

func (p *scriptedPresenter) Ask(_ context.Context, _ int, _ *mcq.Question) (string, error) {
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPresenter) Feedback(fb Feedback) { p.feedback = append(p.feedback, fb) }

func (p *scriptedPresenter) Skipped(_ int, reason string) { p.skipped = append(p.skipped, reason) }

// stepClock advances by step on every reading, so each Ask takes step.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestController(gen mcq.Generator, opts ...Option) *Controller {
	clock := &stepClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), step: 2 * time.Second}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewController(gen, tracker.New("Asha"), opts...)
}

func biologySetup() Setup {
	return Setup{Subject: subject.Biology, Topic: "Cells", Level: difficulty.Easy}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestRun_AllCorrectClimbsToHard(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1), validStep(2), validStep(3), validStep(4), validStep(5)}}
	c := newTestController(gen)
	p := &scriptedPresenter{answers: repeat("2", 5)}

	res, err := c.Run(context.Background(), biologySetup(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.started == nil || p.started.Rounds != DefaultRounds {
		t.Fatalf("presenter not started with %d rounds", DefaultRounds)
	}
	if res.Rounds != 5 || res.Attempted != 5 || res.Correct != 5 || res.Skipped != 0 {
		t.Errorf("unexpected counts: %+v", res)
	}
	if res.StartLevel != difficulty.Easy || res.FinalLevel != difficulty.Hard {
		t.Errorf("levels = %v -> %v, want easy -> hard", res.StartLevel, res.FinalLevel)
	}
	if got := []difficulty.Tier{p.feedback[0].NextLevel, p.feedback[1].NextLevel}; got[0] != difficulty.Medium || got[1] != difficulty.Hard {
		t.Errorf("first transitions = %v, want [medium hard]", got)
	}
	for _, fb := range p.feedback {
		if fb.Source != SourceRules {
			t.Errorf("round %d source = %q, want rules", fb.Round, fb.Source)
		}
		if fb.Elapsed != 2*time.Second {
			t.Errorf("round %d elapsed = %v, want 2s", fb.Round, fb.Elapsed)
		}
	}
	if res.Summary.TotalAttempts != 5 || res.Summary.Name != "Asha" {
		t.Errorf("unexpected summary: %+v", res.Summary)
	}
	if res.AccuracyPercent() != 100 {
		t.Errorf("accuracy = %v, want 100", res.AccuracyPercent())
	}
	if gen.inputs[0].Level != difficulty.Easy || gen.inputs[0].Topic != "Cells" || gen.inputs[0].Subject != subject.Biology {
		t.Errorf("unexpected first input: %+v", gen.inputs[0])
	}
}

func TestRun_InvalidQuestionsConsumeRounds(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{
		validStep(1), threeChoiceStep(2), validStep(3), duplicateChoiceStep(4), validStep(5),
	}}
	c := newTestController(gen)
	p := &scriptedPresenter{answers: repeat("2", 3)}

	res, err := c.Run(context.Background(), biologySetup(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Rounds != 5 || res.Attempted != 3 || res.Skipped != 2 {
		t.Errorf("rounds/attempted/skipped = %d/%d/%d, want 5/3/2", res.Rounds, res.Attempted, res.Skipped)
	}
	if c.Tracker().Len() != 3 {
		t.Errorf("tracker records = %d, want 3", c.Tracker().Len())
	}
	want := []string{"Choices must be list of 4", "Duplicate choices"}
	if len(p.skipped) != 2 || p.skipped[0] != want[0] || p.skipped[1] != want[1] {
		t.Errorf("skipped = %q, want %q", p.skipped, want)
	}
	// The tier does not move on a skipped round.
	if p.feedback[1].PreviousLevel != p.feedback[0].NextLevel {
		t.Errorf("level changed across skip: %v then %v", p.feedback[0].NextLevel, p.feedback[1].PreviousLevel)
	}
	if p.feedback[1].Round != 3 {
		t.Errorf("second answered round = %d, want 3", p.feedback[1].Round)
	}

	// Rejected questions still count as asked for deduplication.
	prior := gen.inputs[2].PriorQuestions
	if len(prior) != 2 || prior[1] != "Bad2?" {
		t.Errorf("prior questions for round 3 = %q", prior)
	}
}

func TestRun_PriorWindow(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1), validStep(2), validStep(3), validStep(4)}}
	c := newTestController(gen, WithRounds(4), WithPriorWindow(2))
	p := &scriptedPresenter{answers: repeat("1", 4)}

	if _, err := c.Run(context.Background(), biologySetup(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := gen.inputs[3].PriorQuestions
	if len(last) != 2 || last[0] != "Q2?" || last[1] != "Q3?" {
		t.Errorf("prior questions = %q, want [Q2? Q3?]", last)
	}
	if len(gen.inputs[0].PriorQuestions) != 0 {
		t.Errorf("first round should have no prior questions")
	}
}

type fixedRecommender struct {
	label int
	got   []predictor.Features
}

func (r *fixedRecommender) PredictLabel(f predictor.Features) int {
	r.got = append(r.got, f)
	return r.label
}

func TestRun_RecommenderDecidesNextLevel(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1), validStep(2)}}
	rec := &fixedRecommender{label: 1}
	c := newTestController(gen, WithRounds(2), WithRecommender(rec))
	p := &scriptedPresenter{answers: []string{"2", "1"}}

	res, err := c.Run(context.Background(), Setup{Subject: subject.Math, Level: difficulty.Medium}, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.FinalLevel != difficulty.Easy {
		t.Errorf("final level = %v, want easy", res.FinalLevel)
	}
	if p.feedback[0].Source != SourceModel {
		t.Errorf("source = %q, want model", p.feedback[0].Source)
	}

	if len(rec.got) != 2 {
		t.Fatalf("recommender calls = %d, want 2", len(rec.got))
	}
	first, second := rec.got[0], rec.got[1]
	if first.Subject != subject.Math || first.AccuracyPct != 100 || first.Streak != 1 || first.Level != difficulty.Medium {
		t.Errorf("unexpected first features: %+v", first)
	}
	if first.AvgTime != 2*time.Second {
		t.Errorf("avg time = %v, want this round's 2s", first.AvgTime)
	}
	if second.AccuracyPct != 50 || second.Streak != 0 || second.Level != difficulty.Easy {
		t.Errorf("unexpected second features: %+v", second)
	}
}

func TestRun_RecommenderLabelOutsideTiersMeansHard(t *testing.T) {
	for _, label := range []int{0, 4, 7} {
		gen := &scriptedGenerator{steps: []genStep{validStep(1)}}
		c := newTestController(gen, WithRounds(1), WithRecommender(&fixedRecommender{label: label}))
		p := &scriptedPresenter{answers: []string{"1"}}

		res, err := c.Run(context.Background(), biologySetup(), p)
		if err != nil {
			t.Fatalf("label %d: unexpected error: %v", label, err)
		}
		if p.feedback[0].Source != SourceModel || res.FinalLevel != difficulty.Hard {
			t.Errorf("label %d: source/final = %q/%v, want model/hard", label, p.feedback[0].Source, res.FinalLevel)
		}
	}
}

func TestRun_QuestionlessPayloadNotInPriorList(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{
		{json: `{"choices":["A","B","C","D"],"answer_index":1,"explanation":"","difficulty_score":5}`},
		validStep(2),
	}}
	c := newTestController(gen, WithRounds(2))
	p := &scriptedPresenter{answers: []string{"2"}}

	if _, err := c.Run(context.Background(), biologySetup(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prior := gen.inputs[1].PriorQuestions; len(prior) != 0 {
		t.Errorf("prior questions for round 2 = %q, want none", prior)
	}
}

func TestRun_GenerationErrorAborts(t *testing.T) {
	genErr := &mcq.GenerationError{Content: "not json", Err: errors.New("no object")}
	gen := &scriptedGenerator{steps: []genStep{validStep(1), {err: genErr}, validStep(3)}}
	c := newTestController(gen)
	p := &scriptedPresenter{answers: repeat("2", 5)}

	res, err := c.Run(context.Background(), biologySetup(), p)
	var got *mcq.GenerationError
	if !errors.As(err, &got) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if res == nil || res.Attempted != 1 || res.Rounds != 2 || res.Skipped != 0 {
		t.Errorf("unexpected partial result: %+v", res)
	}
}

func TestRun_GenerationErrorSkipPolicy(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{
		validStep(1), {err: errors.New("provider down")}, validStep(3), validStep(4), validStep(5),
	}}
	c := newTestController(gen, WithGenerationPolicy(SkipOnGenerationError))
	p := &scriptedPresenter{answers: repeat("2", 4)}

	res, err := c.Run(context.Background(), biologySetup(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rounds != 5 || res.Attempted != 4 || res.Skipped != 1 {
		t.Errorf("rounds/attempted/skipped = %d/%d/%d, want 5/4/1", res.Rounds, res.Attempted, res.Skipped)
	}
	if len(p.skipped) != 1 || p.skipped[0] != "provider down" {
		t.Errorf("skipped = %q", p.skipped)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{steps: []genStep{validStep(1)}}
	c := newTestController(gen, WithGenerationPolicy(SkipOnGenerationError))
	res, err := c.Run(ctx, biologySetup(), &scriptedPresenter{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Rounds != 0 || res.Skipped != 0 {
		t.Errorf("cancelled round should not be consumed: %+v", res)
	}
}

func TestRun_UnparsableAnswerIsWrong(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1)}}
	c := newTestController(gen, WithRounds(1))
	p := &scriptedPresenter{answers: []string{"two"}}

	res, err := c.Run(context.Background(), biologySetup(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fb := p.feedback[0]
	if fb.Correct || fb.Choice != -1 || res.Correct != 0 || res.Attempted != 1 {
		t.Errorf("unexpected feedback %+v / result %+v", fb, res)
	}
	if fb.CorrectAnswer() != "B" || fb.Explanation() != "because" {
		t.Errorf("feedback answer/explanation = %q/%q", fb.CorrectAnswer(), fb.Explanation())
	}
}

func TestRun_AnswerReadErrorEndsSession(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1), validStep(2)}}
	c := newTestController(gen)
	p := &scriptedPresenter{answers: []string{"2"}}

	res, err := c.Run(context.Background(), biologySetup(), p)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if res.Attempted != 1 {
		t.Errorf("attempted = %d, want 1", res.Attempted)
	}
}

type recordingSink struct {
	sessions []store.SessionEventData
	attempts []store.AttemptEventData
}

func (s *recordingSink) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	s.sessions = append(s.sessions, d)
	return nil
}

func (s *recordingSink) AppendAttemptEvent(_ context.Context, d store.AttemptEventData) error {
	s.attempts = append(s.attempts, d)
	return nil
}

func TestRun_EmitsEvents(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1), threeChoiceStep(2), validStep(3)}}
	sink := &recordingSink{}
	c := newTestController(gen, WithRounds(3), WithEventSink(sink))
	p := &scriptedPresenter{answers: []string{"2", "4"}}

	res, err := c.Run(context.Background(), biologySetup(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.sessions) != 2 {
		t.Fatalf("session events = %d, want 2", len(sink.sessions))
	}
	start, end := sink.sessions[0], sink.sessions[1]
	if start.Action != store.SessionStart || start.Name != "Asha" || start.Level != "easy" || start.Rounds != 3 {
		t.Errorf("unexpected start event: %+v", start)
	}
	if end.Action != store.SessionEnd || end.SessionID != res.SessionID || end.Attempted != 2 || end.Skipped != 1 || end.Correct != 1 {
		t.Errorf("unexpected end event: %+v", end)
	}

	if len(sink.attempts) != 2 {
		t.Fatalf("attempt events = %d, want 2", len(sink.attempts))
	}
	a := sink.attempts[1]
	if a.Round != 3 || a.Correct || a.LearnerAnswer != "D" || a.CorrectAnswer != "B" || a.TimeMs != 2000 {
		t.Errorf("unexpected attempt event: %+v", a)
	}
}

func TestFinishIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	c := newTestController(&scriptedGenerator{}, WithEventSink(sink))
	ctx := context.Background()

	st := c.Begin(ctx, Setup{Subject: subject.English})
	if st.Level != difficulty.Easy {
		t.Errorf("unset level should start at easy, got %v", st.Level)
	}
	first := c.Finish(ctx, st)
	second := c.Finish(ctx, st)
	if first != second {
		t.Error("Finish returned a different result on the second call")
	}
	if len(sink.sessions) != 2 {
		t.Errorf("session events = %d, want start and one end", len(sink.sessions))
	}
	if !first.Summary.Empty() || first.Summary.RecommendedLevel != difficulty.None {
		t.Errorf("empty session summary = %+v", first.Summary)
	}
}

func TestNextAfterLastRound(t *testing.T) {
	c := newTestController(&scriptedGenerator{}, WithRounds(0))
	st := c.Begin(context.Background(), biologySetup())
	if _, err := c.Next(context.Background(), st); err == nil {
		t.Fatal("expected error when no rounds remain")
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1", 0},
		{" 4\n", 3},
		{"0", -1},
		{"5", -1},
		{"", -1},
		{"B", -1},
		{"2.0", -1},
	}
	for _, tt := range tests {
		if got := ParseChoice(tt.raw); got != tt.want {
			t.Errorf("ParseChoice(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestRecoverable(t *testing.T) {
	verr := &mcq.ValidationError{Validator: "choices", Reason: "need exactly 4 choices"}
	genErr := errors.New("provider down")

	abort := newTestController(&scriptedGenerator{})
	if !abort.Recoverable(fmt.Errorf("round 1: %w", verr)) {
		t.Error("validation error should be recoverable")
	}
	if abort.Recoverable(genErr) {
		t.Error("generator error should abort under the default policy")
	}

	skip := newTestController(&scriptedGenerator{}, WithGenerationPolicy(SkipOnGenerationError))
	if !skip.Recoverable(genErr) {
		t.Error("generator error should be recoverable under the skip policy")
	}

	if got := SkipReason(verr); got != "need exactly 4 choices" {
		t.Errorf("SkipReason = %q", got)
	}
	if got := SkipReason(genErr); got != "provider down" {
		t.Errorf("SkipReason = %q", got)
	}
}

func TestRequestAndGenerateLeaveStateAlone(t *testing.T) {
	gen := &scriptedGenerator{steps: []genStep{validStep(1)}}
	c := newTestController(gen, WithRounds(1))
	ctx := context.Background()
	st := c.Begin(ctx, biologySetup())

	input, err := c.Request(st)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	payload, genErr := c.Generate(ctx, input)
	if st.Round != 0 || len(st.PriorQuestions()) != 0 {
		t.Fatalf("state changed before Accept: round=%d prior=%q", st.Round, st.PriorQuestions())
	}

	q, err := c.Accept(ctx, st, input, payload, genErr)
	if err != nil || q == nil || q.Text != "Q1?" {
		t.Fatalf("Accept = %v, %v", q, err)
	}
	if st.Round != 1 || len(st.PriorQuestions()) != 1 {
		t.Errorf("after Accept: round=%d prior=%q", st.Round, st.PriorQuestions())
	}
	if _, err := c.Request(st); err == nil {
		t.Error("Request should fail once every round is used")
	}
}
