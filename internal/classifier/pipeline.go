package classifier

import "strings"

// Prediction is the full result of classifying one description.
type Prediction struct {
	Department     string `json:"department"`
	Priority       string `json:"priority"`
	DepartmentCode int    `json:"department_code"`
	PriorityCode   int    `json:"priority_code"`
	NormalizedText string `json:"normalized_text"`
}

// Pipeline orchestrates normalize → vectorize → classify → decode for both
// label dimensions. It is constructed once at startup with a validated
// artifact set and is safe for concurrent use; prediction touches no
// mutable state.
type Pipeline struct {
	normalizer *Normalizer
	artifacts  *ArtifactSet
}

// NewPipeline assembles the prediction pipeline.
func NewPipeline(normalizer *Normalizer, artifacts *ArtifactSet) *Pipeline {
	return &Pipeline{normalizer: normalizer, artifacts: artifacts}
}

// Predict classifies a raw description into (department, priority).
//
// Only literally blank input is rejected; a description that normalizes to
// nothing (all stopwords, all punctuation, fully out-of-vocabulary) proceeds
// through the zero vector and returns whatever those models predict for it.
func (p *Pipeline) Predict(description string) (Prediction, error) {
	if strings.TrimSpace(description) == "" {
		return Prediction{}, ErrEmptyDescription
	}

	normalized := p.normalizer.Normalize(description)
	vector := p.artifacts.Vectorizer.Transform(normalized)

	deptCode := p.artifacts.DepartmentModel.Predict(vector)
	prioCode := p.artifacts.PriorityModel.Predict(vector)

	department, err := p.artifacts.DepartmentCodec.Decode(deptCode)
	if err != nil {
		return Prediction{}, err
	}
	priority, err := p.artifacts.PriorityCodec.Decode(prioCode)
	if err != nil {
		return Prediction{}, err
	}

	return Prediction{
		Department:     department,
		Priority:       priority,
		DepartmentCode: deptCode,
		PriorityCode:   prioCode,
		NormalizedText: normalized,
	}, nil
}

// Artifacts exposes the loaded artifact set for health and tooling output.
func (p *Pipeline) Artifacts() *ArtifactSet {
	return p.artifacts
}
