package classifier

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"os"
)

// ArtifactPaths addresses the five serialized artifacts produced by one
// training run.
type ArtifactPaths struct {
	Vectorizer      string
	DepartmentModel string
	PriorityModel   string
	DepartmentCodec string
	PriorityCodec   string
}

// ArtifactSet holds the loaded, validated artifacts. All fields are
// read-only after load; concurrent prediction needs no locking.
type ArtifactSet struct {
	Vectorizer      *Vectorizer
	DepartmentModel *LinearModel
	PriorityModel   *LinearModel
	DepartmentCodec *LabelCodec
	PriorityCodec   *LabelCodec

	fingerprint string
}

type vectorizerFile struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

type modelFile struct {
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

type codecFile struct {
	Classes []string `json:"classes"`
}

// LoadArtifacts reads all five artifacts and cross-validates them as a set.
// Codec/classifier pairs are joined by class position and classifier/
// vectorizer pairs by feature dimensionality, so a partial or skewed set is
// rejected outright with an ArtifactError.
func LoadArtifacts(paths ArtifactPaths) (*ArtifactSet, error) {
	sum := sha1.New()

	var vecFile vectorizerFile
	if err := readArtifact("vectorizer", paths.Vectorizer, &vecFile, sum); err != nil {
		return nil, err
	}
	vectorizer, err := NewVectorizer(vecFile.Vocabulary, vecFile.IDF)
	if err != nil {
		return nil, &ArtifactError{Name: "vectorizer", Path: paths.Vectorizer, Err: err}
	}

	deptModel, err := loadModel("department model", paths.DepartmentModel, sum)
	if err != nil {
		return nil, err
	}
	prioModel, err := loadModel("priority model", paths.PriorityModel, sum)
	if err != nil {
		return nil, err
	}
	deptCodec, err := loadCodec("department", paths.DepartmentCodec, sum)
	if err != nil {
		return nil, err
	}
	prioCodec, err := loadCodec("priority", paths.PriorityCodec, sum)
	if err != nil {
		return nil, err
	}

	set := &ArtifactSet{
		Vectorizer:      vectorizer,
		DepartmentModel: deptModel,
		PriorityModel:   prioModel,
		DepartmentCodec: deptCodec,
		PriorityCodec:   prioCodec,
		fingerprint:     hex.EncodeToString(sum.Sum(nil)),
	}
	if err := set.validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *ArtifactSet) validate() error {
	dim := s.Vectorizer.Dimension()
	if got := s.DepartmentModel.Features(); got != dim {
		return &ArtifactError{Name: "department model", Err: fmt.Errorf("trained on %d features, vectorizer has %d", got, dim)}
	}
	if got := s.PriorityModel.Features(); got != dim {
		return &ArtifactError{Name: "priority model", Err: fmt.Errorf("trained on %d features, vectorizer has %d", got, dim)}
	}
	if m, c := s.DepartmentModel.Classes(), s.DepartmentCodec.Classes(); m != c {
		return &ArtifactError{Name: "department codec", Err: fmt.Errorf("model has %d classes, codec has %d", m, c)}
	}
	if m, c := s.PriorityModel.Classes(), s.PriorityCodec.Classes(); m != c {
		return &ArtifactError{Name: "priority codec", Err: fmt.Errorf("model has %d classes, codec has %d", m, c)}
	}
	return nil
}

// Fingerprint identifies the loaded artifact set by content hash. Cache
// keys embed it so an artifact swap invalidates previously cached results.
func (s *ArtifactSet) Fingerprint() string {
	return s.fingerprint
}

// Dimension returns the shared feature-space width.
func (s *ArtifactSet) Dimension() int {
	return s.Vectorizer.Dimension()
}

func loadModel(name, path string, sum hash.Hash) (*LinearModel, error) {
	var file modelFile
	if err := readArtifact(name, path, &file, sum); err != nil {
		return nil, err
	}
	model, err := NewLinearModel(file.Coefficients, file.Intercepts)
	if err != nil {
		return nil, &ArtifactError{Name: name, Path: path, Err: err}
	}
	return model, nil
}

func loadCodec(label, path string, sum hash.Hash) (*LabelCodec, error) {
	var file codecFile
	if err := readArtifact(label+" codec", path, &file, sum); err != nil {
		return nil, err
	}
	codec, err := NewLabelCodec(label, file.Classes)
	if err != nil {
		return nil, &ArtifactError{Name: label + " codec", Path: path, Err: err}
	}
	return codec, nil
}

func readArtifact(name, path string, dest any, sum hash.Hash) error {
	if path == "" {
		return &ArtifactError{Name: name, Err: fmt.Errorf("no path configured")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &ArtifactError{Name: name, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &ArtifactError{Name: name, Path: path, Err: fmt.Errorf("corrupt artifact: %w", err)}
	}
	_, _ = sum.Write(data)
	return nil
}
