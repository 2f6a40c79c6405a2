package store

import (
	"context"
	"fmt"
	"time"
)

type sessionEventRow struct {
	ID int64 `db:"id"`
	eventStamp
	SessionID    string  `db:"session_id"`
	Action       string  `db:"action"`
	Name         string  `db:"name"`
	Subject      string  `db:"subject"`
	Topic        string  `db:"topic"`
	Level        string  `db:"level"`
	Rounds       int     `db:"rounds"`
	Attempted    int     `db:"attempted"`
	Correct      int     `db:"correct"`
	Skipped      int     `db:"skipped"`
	DurationSecs float64 `db:"duration_secs"`
}

type attemptEventRow struct {
	ID int64 `db:"id"`
	eventStamp
	SessionID     string `db:"session_id"`
	Round         int    `db:"round"`
	Subject       string `db:"subject"`
	Topic         string `db:"topic"`
	Level         string `db:"level"`
	QuestionText  string `db:"question_text"`
	CorrectAnswer string `db:"correct_answer"`
	LearnerAnswer string `db:"learner_answer"`
	Correct       bool   `db:"correct"`
	TimeMs        int64  `db:"time_ms"`
	NextLevel     string `db:"next_level"`
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.Action != SessionStart && data.Action != SessionEnd {
		return fmt.Errorf("save session event: unknown action %q", data.Action)
	}
	return r.insert(ctx, "session", `INSERT INTO session_events
		(sequence, timestamp, session_id, action, name, subject, topic, level,
		 rounds, attempted, correct, skipped, duration_secs)
		VALUES (:sequence, :timestamp, :session_id, :action, :name, :subject, :topic, :level,
		 :rounds, :attempted, :correct, :skipped, :duration_secs)`,
		&sessionEventRow{
			SessionID:    data.SessionID,
			Action:       data.Action,
			Name:         data.Name,
			Subject:      data.Subject,
			Topic:        data.Topic,
			Level:        data.Level,
			Rounds:       data.Rounds,
			Attempted:    data.Attempted,
			Correct:      data.Correct,
			Skipped:      data.Skipped,
			DurationSecs: data.DurationSecs,
		})
}

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	return r.insert(ctx, "attempt", `INSERT INTO attempt_events
		(sequence, timestamp, session_id, round, subject, topic, level, question_text,
		 correct_answer, learner_answer, correct, time_ms, next_level)
		VALUES (:sequence, :timestamp, :session_id, :round, :subject, :topic, :level, :question_text,
		 :correct_answer, :learner_answer, :correct, :time_ms, :next_level)`,
		&attemptEventRow{
			SessionID:     data.SessionID,
			Round:         data.Round,
			Subject:       data.Subject,
			Topic:         data.Topic,
			Level:         data.Level,
			QuestionText:  data.QuestionText,
			CorrectAnswer: data.CorrectAnswer,
			LearnerAnswer: data.LearnerAnswer,
			Correct:       data.Correct,
			TimeMs:        data.TimeMs,
			NextLevel:     data.NextLevel,
		})
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	where, limit, args := opts.filter("action = 'end'")
	var rows []sessionEventRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM session_events`+where+` ORDER BY sequence DESC`+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	out := make([]SessionRecord, len(rows))
	for i, row := range rows {
		out[i] = SessionRecord{
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.Timestamp).UTC(),
			SessionEventData: SessionEventData{
				SessionID:    row.SessionID,
				Action:       row.Action,
				Name:         row.Name,
				Subject:      row.Subject,
				Topic:        row.Topic,
				Level:        row.Level,
				Rounds:       row.Rounds,
				Attempted:    row.Attempted,
				Correct:      row.Correct,
				Skipped:      row.Skipped,
				DurationSecs: row.DurationSecs,
			},
		}
	}
	return out, nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, sessionID string) ([]AttemptEvent, error) {
	var rows []attemptEventRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM attempt_events WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}

	out := make([]AttemptEvent, len(rows))
	for i, row := range rows {
		out[i] = AttemptEvent{
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.Timestamp).UTC(),
			AttemptEventData: AttemptEventData{
				SessionID:     row.SessionID,
				Round:         row.Round,
				Subject:       row.Subject,
				Topic:         row.Topic,
				Level:         row.Level,
				QuestionText:  row.QuestionText,
				CorrectAnswer: row.CorrectAnswer,
				LearnerAnswer: row.LearnerAnswer,
				Correct:       row.Correct,
				TimeMs:        row.TimeMs,
				NextLevel:     row.NextLevel,
			},
		}
	}
	return out, nil
}
