// Package tracker keeps the ordered history of answered questions for one
// player and derives accuracy, timing, streak and rule-based level
// recommendations from it. Every statistic is recomputed from the history
// on each call.
package tracker

import (
	"time"

	"github.com/samber/lo"

	"github.com/quizadv/quizadv/internal/difficulty"
)

// Thresholds for the rule-based recommendation.
const (
	PromoteAccuracy = 0.8
	DemoteAccuracy  = 0.5
	FastAvgTime     = 10 * time.Second
	SlowAvgTime     = 20 * time.Second
)

// Attempt is the outcome of one answered question.
type Attempt struct {
	Level     difficulty.Tier
	Correct   bool
	TimeTaken time.Duration
}

// Tracker owns the attempt history of a single player. It is not safe for
// concurrent use.
type Tracker struct {
	Name    string
	records []Attempt
}

// New creates an empty tracker for the named player.
func New(name string) *Tracker {
	return &Tracker{Name: name}
}

// Record appends an attempt. Negative durations are stored as zero.
func (t *Tracker) Record(level difficulty.Tier, correct bool, timeTaken time.Duration) {
	if timeTaken < 0 {
		timeTaken = 0
	}
	t.records = append(t.records, Attempt{
		Level:     level,
		Correct:   correct,
		TimeTaken: timeTaken,
	})
}

// Len returns the number of recorded attempts.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Records returns a copy of the history, oldest first.
func (t *Tracker) Records() []Attempt {
	out := make([]Attempt, len(t.records))
	copy(out, t.records)
	return out
}

// Correct returns the number of correct attempts.
func (t *Tracker) Correct() int {
	return lo.CountBy(t.records, func(a Attempt) bool { return a.Correct })
}

// Accuracy returns the fraction of correct attempts, 0 when empty.
func (t *Tracker) Accuracy() float64 {
	if len(t.records) == 0 {
		return 0
	}
	return float64(t.Correct()) / float64(len(t.records))
}

// AverageTime returns the mean time per attempt, 0 when empty.
func (t *Tracker) AverageTime() time.Duration {
	if len(t.records) == 0 {
		return 0
	}
	total := lo.SumBy(t.records, func(a Attempt) time.Duration { return a.TimeTaken })
	return total / time.Duration(len(t.records))
}

// avgSeconds is the mean time in fractional seconds, used for threshold
// comparisons so that integer division never rounds across a boundary.
func (t *Tracker) avgSeconds() float64 {
	if len(t.records) == 0 {
		return 0
	}
	total := lo.SumBy(t.records, func(a Attempt) time.Duration { return a.TimeTaken })
	return total.Seconds() / float64(len(t.records))
}

// Streak counts consecutive correct attempts ending at the most recent one.
func (t *Tracker) Streak() int {
	streak := 0
	for i := len(t.records) - 1; i >= 0; i-- {
		if !t.records[i].Correct {
			break
		}
		streak++
	}
	return streak
}

// CurrentLevel returns the tier of the most recent attempt, or Easy when
// nothing has been recorded.
func (t *Tracker) CurrentLevel() difficulty.Tier {
	if len(t.records) == 0 {
		return difficulty.Easy
	}
	return t.records[len(t.records)-1].Level
}

// RecommendedLevel applies the rule-based recommendation over the whole
// history. Pass difficulty.None when no current tier is known.
//
// Tier rules move one step at a time. When none of them fires the global
// rule decides, which may jump straight from Easy to Hard or back.
func (t *Tracker) RecommendedLevel(current difficulty.Tier) difficulty.Tier {
	if len(t.records) == 0 {
		return difficulty.Easy
	}

	acc := t.Accuracy()
	avg := t.avgSeconds()
	fast := avg < FastAvgTime.Seconds()
	slow := avg > SlowAvgTime.Seconds()

	switch {
	case current == difficulty.Easy && acc > PromoteAccuracy:
		return difficulty.Medium
	case current == difficulty.Medium && acc > PromoteAccuracy && fast:
		return difficulty.Hard
	case current == difficulty.Hard && (acc < DemoteAccuracy || slow):
		return difficulty.Medium
	}

	switch {
	case acc > PromoteAccuracy && fast:
		return difficulty.Hard
	case acc < DemoteAccuracy || slow:
		return difficulty.Easy
	default:
		return difficulty.Medium
	}
}
