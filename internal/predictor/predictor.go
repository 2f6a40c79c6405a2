// Package predictor fits a multinomial logistic regression over a static
// historical dataset and predicts the difficulty tier for the next
// question from a player's recent performance.
//
// A Predictor is immutable once built and may be shared between sessions
// and goroutines.
package predictor

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/subject"
)

// ErrConstruction wraps every failure to build a Predictor.
var ErrConstruction = errors.New("level predictor unavailable")

// Features is the input to a single prediction.
type Features struct {
	Subject     subject.Subject
	AccuracyPct float64 // 0..100
	AvgTime     time.Duration
	Streak      int
	Level       difficulty.Tier
}

func (f Features) vector(code int) []float64 {
	return []float64{
		float64(code),
		f.AccuracyPct,
		f.AvgTime.Seconds(),
		float64(f.Streak),
		float64(levelCode(f.Level)),
	}
}

// levelCode maps a tier to its code, treating None as Easy.
func levelCode(t difficulty.Tier) int {
	if !t.Valid() {
		return difficulty.Easy.Code()
	}
	return t.Code()
}

// Option configures a Predictor.
type Option func(*options)

type options struct {
	logger *slog.Logger
	sheet  string
}

// WithLogger sets the logger that receives degraded-input warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSheet selects the worksheet read from an .xlsx dataset.
func WithSheet(name string) Option {
	return func(o *options) { o.sheet = name }
}

// Predictor maps performance features to a next-level class label.
type Predictor struct {
	scaler   scaler
	model    softmaxModel
	logger   *slog.Logger
	examples int
	trainAcc float64
}

// Load reads the dataset at path and fits a Predictor from it.
func Load(path string, opts ...Option) (*Predictor, error) {
	o := buildOptions(opts)
	examples, err := LoadDataset(path, o.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}
	return Fit(examples, opts...)
}

// Fit trains a Predictor on examples. Subjects are encoded with the fixed
// subject catalog so that training and inference share one encoding.
func Fit(examples []Example, opts ...Option) (*Predictor, error) {
	o := buildOptions(opts)
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no training examples", ErrConstruction)
	}

	classes := lo.Uniq(lo.Map(examples, func(e Example, _ int) int { return e.NextLevel }))
	slices.Sort(classes)
	classIndex := make(map[int]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	raw := make([][]float64, len(examples))
	y := make([]int, len(examples))
	for i, e := range examples {
		raw[i] = []float64{
			float64(subject.Subject(e.Subject).Code()),
			e.Accuracy,
			e.AvgTime,
			float64(e.Streak),
			float64(e.CurrentLevel),
		}
		y[i] = classIndex[e.NextLevel]
	}

	sc := fitScaler(raw)
	x := make([][]float64, len(raw))
	for i, row := range raw {
		x[i] = sc.transform(row)
	}

	p := &Predictor{
		scaler:   sc,
		model:    fitSoftmax(x, y, classes),
		logger:   o.logger,
		examples: len(examples),
	}

	hits := 0
	for i, row := range x {
		if p.model.predict(row) == classes[y[i]] {
			hits++
		}
	}
	p.trainAcc = float64(hits) / float64(len(x))
	return p, nil
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PredictLabel returns the raw class label for f. An unknown subject is
// encoded as subject.UnknownCode and reported on the logger.
func (p *Predictor) PredictLabel(f Features) int {
	code := f.Subject.Code()
	if code == subject.UnknownCode && p.logger != nil {
		p.logger.Warn("unrecognized subject, predicting without subject signal",
			"subject", string(f.Subject), "code", subject.UnknownCode)
	}
	return p.model.predict(p.scaler.transform(f.vector(code)))
}

// Predict returns the tier for the predicted label.
func (p *Predictor) Predict(f Features) difficulty.Tier {
	return difficulty.FromLabel(p.PredictLabel(f))
}

// PredictNextLevel is the string-facing form of PredictLabel. level is
// normalized through difficulty.ParseLevel.
func (p *Predictor) PredictNextLevel(subj string, accuracyPct float64, avgTime time.Duration, streak int, level string) int {
	return p.PredictLabel(Features{
		Subject:     subject.Subject(subj),
		AccuracyPct: accuracyPct,
		AvgTime:     avgTime,
		Streak:      streak,
		Level:       difficulty.ParseLevel(level),
	})
}

// Classes returns the sorted class labels seen during fitting.
func (p *Predictor) Classes() []int {
	return slices.Clone(p.model.classes)
}

// Examples returns the number of training rows.
func (p *Predictor) Examples() int {
	return p.examples
}

// TrainingAccuracy is the fraction of training rows the model reproduces.
func (p *Predictor) TrainingAccuracy() float64 {
	return p.trainAcc
}
