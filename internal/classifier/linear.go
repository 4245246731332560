package classifier

import (
	"errors"
	"fmt"
)

// LinearModel is a single-label multinomial linear classifier: one weight
// row and intercept per class over the shared feature space. Only the
// forward pass lives here; training happens offline.
type LinearModel struct {
	coefficients [][]float64
	intercepts   []float64
	features     int
}

// NewLinearModel validates coefficient/intercept shapes. Every class row
// must have the same width; dimensional consistency against the vectorizer
// is checked separately at artifact load.
func NewLinearModel(coefficients [][]float64, intercepts []float64) (*LinearModel, error) {
	if len(coefficients) == 0 {
		return nil, errors.New("model has no classes")
	}
	if len(coefficients) != len(intercepts) {
		return nil, fmt.Errorf("%d coefficient rows but %d intercepts", len(coefficients), len(intercepts))
	}
	features := len(coefficients[0])
	if features == 0 {
		return nil, errors.New("model has no features")
	}
	for i, row := range coefficients {
		if len(row) != features {
			return nil, fmt.Errorf("class %d has %d features, expected %d", i, len(row), features)
		}
	}
	return &LinearModel{coefficients: coefficients, intercepts: intercepts, features: features}, nil
}

// Classes returns the number of output classes.
func (m *LinearModel) Classes() int {
	return len(m.coefficients)
}

// Features returns the expected input dimensionality.
func (m *LinearModel) Features() int {
	return m.features
}

// Predict computes the decision function per class and returns the argmax
// index. Exact score ties resolve to the lowest class index. Input width is
// guaranteed by startup validation, never checked per request.
func (m *LinearModel) Predict(vector []float64) int {
	best := 0
	bestScore := m.score(0, vector)
	for class := 1; class < len(m.coefficients); class++ {
		if score := m.score(class, vector); score > bestScore {
			best = class
			bestScore = score
		}
	}
	return best
}

func (m *LinearModel) score(class int, vector []float64) float64 {
	score := m.intercepts[class]
	row := m.coefficients[class]
	for i, w := range row {
		score += w * vector[i]
	}
	return score
}
