package predictor

import "math"

// Fitting parameters for the multinomial logistic regression. The L2
// penalty matches an inverse regularization strength of 1 applied to the
// summed log loss.
const (
	learningRate = 0.3
	maxIter      = 5000
	tolerance    = 1e-6
	l2Strength   = 1.0
)

// softmaxModel is a multinomial logistic regression over standardized
// features. weights[k] and bias[k] score class classes[k].
type softmaxModel struct {
	classes []int
	weights [][]float64
	bias    []float64
}

// fitSoftmax trains with deterministic full-batch gradient descent from a
// zero start. x must already be standardized and y holds class indexes
// into classes.
func fitSoftmax(x [][]float64, y []int, classes []int) softmaxModel {
	k := len(classes)
	d := len(x[0])
	n := float64(len(x))

	m := softmaxModel{
		classes: classes,
		weights: make([][]float64, k),
		bias:    make([]float64, k),
	}
	for c := range m.weights {
		m.weights[c] = make([]float64, d)
	}
	if k == 1 {
		return m
	}

	gradW := make([][]float64, k)
	for c := range gradW {
		gradW[c] = make([]float64, d)
	}
	gradB := make([]float64, k)
	probs := make([]float64, k)

	for iter := 0; iter < maxIter; iter++ {
		for c := range gradW {
			clear(gradW[c])
		}
		clear(gradB)

		for i, row := range x {
			m.probabilities(row, probs)
			for c := 0; c < k; c++ {
				diff := probs[c]
				if y[i] == c {
					diff -= 1
				}
				gradB[c] += diff
				for j, v := range row {
					gradW[c][j] += diff * v
				}
			}
		}

		var maxGrad float64
		for c := 0; c < k; c++ {
			gradB[c] /= n
			maxGrad = math.Max(maxGrad, math.Abs(gradB[c]))
			m.bias[c] -= learningRate * gradB[c]
			for j := 0; j < d; j++ {
				g := (gradW[c][j] + l2Strength*m.weights[c][j]) / n
				maxGrad = math.Max(maxGrad, math.Abs(g))
				m.weights[c][j] -= learningRate * g
			}
		}

		if maxGrad < tolerance {
			break
		}
	}
	return m
}

// probabilities writes the class probabilities for row into out.
func (m softmaxModel) probabilities(row []float64, out []float64) {
	maxScore := math.Inf(-1)
	for c := range m.classes {
		s := m.bias[c]
		for j, v := range row {
			s += m.weights[c][j] * v
		}
		out[c] = s
		maxScore = math.Max(maxScore, s)
	}
	var sum float64
	for c := range out {
		out[c] = math.Exp(out[c] - maxScore)
		sum += out[c]
	}
	for c := range out {
		out[c] /= sum
	}
}

// predict returns the class label with the highest probability. Ties go to
// the smaller label.
func (m softmaxModel) predict(row []float64) int {
	probs := make([]float64, len(m.classes))
	m.probabilities(row, probs)
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return m.classes[best]
}
