package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quizadv.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationsCreateTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"global_sequence", "llm_request_events", "session_events", "attempt_events"} {
		var name string
		err := s.DB().Get(&name,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizadv.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 300, Success: true, RequestBody: "[user]\nSubject: Math", ResponseBody: `{"question":"2+2?"}`},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 120, OutputTokens: 40, LatencyMs: 500, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "question-gen", LatencyMs: 100, ErrorMessage: "rate limited"},
	}
	for _, c := range calls {
		if err := repo.AppendLLMRequest(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Provider != "anthropic" || events[0].Success {
		t.Errorf("newest event = %+v, want failed anthropic call", events[0])
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("events not ordered newest first: %d, %d", events[0].Sequence, events[1].Sequence)
	}

	first, err := repo.GetLLMEvent(ctx, events[1].ID-1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil || first.RequestBody != "[user]\nSubject: Math" || first.ResponseBody != `{"question":"2+2?"}` {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if time.Since(first.Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", first.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event, got %+v", missing)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: first.Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("events after first = %d, want 2", len(after))
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, c := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 30, LatencyMs: 400},
		{Provider: "openai", Model: "gpt-4o", Purpose: "preview", InputTokens: 10, OutputTokens: 5, LatencyMs: 50},
	} {
		if err := repo.AppendLLMRequest(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	want := PurposeUsage{Purpose: "question-gen", Calls: 2, InputTokens: 200, OutputTokens: 80, AvgLatencyMs: 300}
	if byPurpose[0] != want {
		t.Errorf("question-gen usage = %+v, want %+v", byPurpose[0], want)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gpt-4o-mini" || byModel[0].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestSessionAndAttemptEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	start := SessionEventData{SessionID: "s1", Action: SessionStart, Name: "Asha", Subject: "Biology", Topic: "Cells", Level: "easy", Rounds: 5}
	if err := repo.AppendSessionEvent(ctx, start); err != nil {
		t.Fatalf("append start: %v", err)
	}
	for i, correct := range []bool{true, false} {
		err := repo.AppendAttemptEvent(ctx, AttemptEventData{
			SessionID:     "s1",
			Round:         i + 1,
			Subject:       "Biology",
			Topic:         "Cells",
			Level:         "easy",
			QuestionText:  "Which organelle makes ATP?",
			CorrectAnswer: "Mitochondria",
			LearnerAnswer: "Mitochondria",
			Correct:       correct,
			TimeMs:        4200,
			NextLevel:     "medium",
		})
		if err != nil {
			t.Fatalf("append attempt: %v", err)
		}
	}
	end := start
	end.Action = SessionEnd
	end.Level = "medium"
	end.Attempted, end.Correct, end.Skipped, end.DurationSecs = 4, 3, 1, 61.5
	if err := repo.AppendSessionEvent(ctx, end); err != nil {
		t.Fatalf("append end: %v", err)
	}

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", Action: "pause"}); err == nil {
		t.Fatal("expected error for unknown action")
	}

	sessions, err := repo.QuerySessions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1 (end events only)", len(sessions))
	}
	got := sessions[0]
	if got.Name != "Asha" || got.Level != "medium" || got.Attempted != 4 || got.Correct != 3 || got.Skipped != 1 || got.DurationSecs != 61.5 {
		t.Errorf("unexpected session record: %+v", got)
	}

	attempts, err := repo.QueryAttempts(ctx, "s1")
	if err != nil {
		t.Fatalf("query attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}
	if attempts[0].Round != 1 || !attempts[0].Correct || attempts[1].Correct {
		t.Errorf("unexpected attempts: %+v", attempts)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events after reset = %d, want 0", len(events))
	}
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence after reset = %d, want 1", seq)
	}
}
