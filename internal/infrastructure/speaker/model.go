package speaker

import (
	"errors"
	"math"
)

// Class labels used by the binary trust model.
const (
	classImpostor = 0
	classEnrolled = 1
)

// centroidModel is a two-class nearest-centroid classifier with a logistic
// probability over the margin between the centroids. It stands in for the
// original SVM behind the same narrow fit/predict contract; model accuracy is
// explicitly not the point of the gate.
type centroidModel struct {
	Enrolled []float64 `json:"enrolled"`
	Impostor []float64 `json:"impostor"`
}

func (m *centroidModel) Fit(samples [][]float64, labels []int) error {
	if len(samples) != len(labels) || len(samples) == 0 {
		return errors.New("model fit on inconsistent data")
	}
	var enrolled, impostor [][]float64
	for i, sample := range samples {
		switch labels[i] {
		case classEnrolled:
			enrolled = append(enrolled, sample)
		case classImpostor:
			impostor = append(impostor, sample)
		default:
			return errors.New("model fit with unknown class label")
		}
	}
	if len(enrolled) == 0 || len(impostor) == 0 {
		return errors.New("model fit requires both classes")
	}
	m.Enrolled = mean(enrolled)
	m.Impostor = mean(impostor)
	return nil
}

// Predict returns the nearer class and the logistic probability assigned to
// that predicted class.
func (m *centroidModel) Predict(sample []float64) (int, float64, error) {
	if len(m.Enrolled) == 0 || len(m.Impostor) == 0 {
		return 0, 0, errors.New("model not fitted")
	}
	dEnrolled, err := distance(sample, m.Enrolled)
	if err != nil {
		return 0, 0, err
	}
	dImpostor, err := distance(sample, m.Impostor)
	if err != nil {
		return 0, 0, err
	}

	// positive margin favors the enrolled class
	margin := dImpostor - dEnrolled
	pEnrolled := 1.0 / (1.0 + math.Exp(-margin))
	if pEnrolled >= 0.5 {
		return classEnrolled, pEnrolled, nil
	}
	return classImpostor, 1 - pEnrolled, nil
}

func mean(samples [][]float64) []float64 {
	out := make([]float64, len(samples[0]))
	for _, sample := range samples {
		for i, v := range sample {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(samples))
	}
	return out
}

func distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.New("model dimension mismatch")
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
