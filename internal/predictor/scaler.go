package predictor

import "math"

// scaler standardizes each feature to zero mean and unit variance using
// population statistics from the training set. Constant features keep a
// scale of 1.
type scaler struct {
	mean  []float64
	scale []float64
}

func fitScaler(x [][]float64) scaler {
	d := len(x[0])
	s := scaler{mean: make([]float64, d), scale: make([]float64, d)}
	n := float64(len(x))

	for _, row := range x {
		for j, v := range row {
			s.mean[j] += v
		}
	}
	for j := range s.mean {
		s.mean[j] /= n
	}

	for _, row := range x {
		for j, v := range row {
			diff := v - s.mean[j]
			s.scale[j] += diff * diff
		}
	}
	for j := range s.scale {
		s.scale[j] = math.Sqrt(s.scale[j] / n)
		if s.scale[j] == 0 {
			s.scale[j] = 1
		}
	}
	return s
}

func (s scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.scale[j]
	}
	return out
}
