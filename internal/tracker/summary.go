package tracker

import (
	"time"

	"github.com/quizadv/quizadv/internal/difficulty"
)

// Summary is a point-in-time view of a tracker. RecommendedLevel is
// difficulty.None when nothing has been recorded.
type Summary struct {
	Name             string
	TotalAttempts    int
	CorrectAnswers   int
	Accuracy         float64
	AvgTime          time.Duration
	RecommendedLevel difficulty.Tier
}

// Summary computes the current statistics. The recommendation is made
// relative to the tier of the most recent attempt.
func (t *Tracker) Summary() Summary {
	s := Summary{Name: t.Name}
	if len(t.records) == 0 {
		return s
	}
	s.TotalAttempts = len(t.records)
	s.CorrectAnswers = t.Correct()
	s.Accuracy = t.Accuracy()
	s.AvgTime = t.AverageTime()
	s.RecommendedLevel = t.RecommendedLevel(t.CurrentLevel())
	return s
}

// Empty reports whether the summary was taken from an empty tracker.
func (s Summary) Empty() bool {
	return s.TotalAttempts == 0
}

// AccuracyPercent returns accuracy scaled to 0..100.
func (s Summary) AccuracyPercent() float64 {
	return s.Accuracy * 100
}

// Sample is one training example derived from a single attempt.
type Sample struct {
	Accuracy float64 // 1 for correct, 0 otherwise
	AvgTime  float64 // seconds taken on this attempt
}

// TrainingData projects every attempt to a sample paired with the tier it
// was asked at.
func (t *Tracker) TrainingData() ([]Sample, []difficulty.Tier) {
	samples := make([]Sample, len(t.records))
	levels := make([]difficulty.Tier, len(t.records))
	for i, a := range t.records {
		acc := 0.0
		if a.Correct {
			acc = 1
		}
		samples[i] = Sample{Accuracy: acc, AvgTime: a.TimeTaken.Seconds()}
		levels[i] = a.Level
	}
	return samples, levels
}

// Series is the per-question history used for plotting.
type Series struct {
	Name string
	// CumulativeAccuracy[i] is the accuracy percent over attempts 0..i.
	CumulativeAccuracy []float64
	// Seconds[i] is the time taken on attempt i.
	Seconds []float64
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Seconds)
}

// Series builds the plotting series from the history.
func (t *Tracker) Series() Series {
	s := Series{
		Name:               t.Name,
		CumulativeAccuracy: make([]float64, len(t.records)),
		Seconds:            make([]float64, len(t.records)),
	}
	correct := 0
	for i, a := range t.records {
		if a.Correct {
			correct++
		}
		s.CumulativeAccuracy[i] = float64(correct) / float64(i+1) * 100
		s.Seconds[i] = a.TimeTaken.Seconds()
	}
	return s
}
