package classifier

import (
	"errors"
	"fmt"
)

// ErrEmptyDescription is returned when a description is blank after trimming.
var ErrEmptyDescription = errors.New("description cannot be empty")

// ArtifactError reports a failure to load or validate a trained artifact.
// Any ArtifactError is fatal: the service must not start against a partial
// or inconsistent artifact set.
type ArtifactError struct {
	Name string
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("artifact %s (%s): %v", e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("artifact %s: %v", e.Name, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// InvalidCodeError reports a class index outside the codec's known range.
// It indicates classifier/codec artifact skew and is never mapped to a
// default label.
type InvalidCodeError struct {
	Label   string
	Code    int
	Classes int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("%s code %d outside [0, %d)", e.Label, e.Code, e.Classes)
}
