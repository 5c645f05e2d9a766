package speaker

import (
	"errors"
	"math"
)

// standardScaler centers and scales feature vectors to the statistics of the
// data it was fitted on.
type standardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func (s *standardScaler) Fit(samples [][]float64) error {
	if len(samples) == 0 {
		return errors.New("scaler fit on empty data")
	}
	dims := len(samples[0])
	s.Mean = make([]float64, dims)
	s.Std = make([]float64, dims)

	for _, sample := range samples {
		if len(sample) != dims {
			return errors.New("scaler fit on ragged data")
		}
		for i, v := range sample {
			s.Mean[i] += v
		}
	}
	n := float64(len(samples))
	for i := range s.Mean {
		s.Mean[i] /= n
	}
	for _, sample := range samples {
		for i, v := range sample {
			d := v - s.Mean[i]
			s.Std[i] += d * d
		}
	}
	for i := range s.Std {
		s.Std[i] = math.Sqrt(s.Std[i] / n)
		if s.Std[i] == 0 {
			s.Std[i] = 1
		}
	}
	return nil
}

func (s *standardScaler) Transform(sample []float64) ([]float64, error) {
	if len(sample) != len(s.Mean) {
		return nil, errors.New("scaler transform dimension mismatch")
	}
	out := make([]float64, len(sample))
	for i, v := range sample {
		out[i] = (v - s.Mean[i]) / s.Std[i]
	}
	return out, nil
}
