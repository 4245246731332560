package classifier

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Vectorizer applies a TF-IDF transform whose vocabulary and IDF weights
// were fixed at training time. Inference never grows the vocabulary;
// out-of-vocabulary tokens contribute nothing.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// NewVectorizer validates and wraps a frozen vocabulary and its IDF weights.
func NewVectorizer(vocabulary map[string]int, idf []float64) (*Vectorizer, error) {
	if len(vocabulary) == 0 {
		return nil, errors.New("empty vocabulary")
	}
	if len(vocabulary) != len(idf) {
		return nil, fmt.Errorf("vocabulary size %d does not match idf length %d", len(vocabulary), len(idf))
	}
	seen := make([]bool, len(idf))
	for term, idx := range vocabulary {
		if idx < 0 || idx >= len(idf) {
			return nil, fmt.Errorf("term %q has column %d outside [0, %d)", term, idx, len(idf))
		}
		if seen[idx] {
			return nil, fmt.Errorf("column %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	return &Vectorizer{vocabulary: vocabulary, idf: idf}, nil
}

// Dimension returns the fixed width of produced vectors.
func (v *Vectorizer) Dimension() int {
	return len(v.idf)
}

// Transform maps normalized text to its TF-IDF vector: raw in-document term
// count times the training-time IDF weight per column, L2-normalized. text
// with no in-vocabulary tokens yields the zero vector.
func (v *Vectorizer) Transform(normalized string) []float64 {
	vec := make([]float64, len(v.idf))
	var norm float64
	for _, token := range strings.Fields(normalized) {
		if idx, ok := v.vocabulary[token]; ok {
			vec[idx] += v.idf[idx]
		}
	}
	for _, val := range vec {
		norm += val * val
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
