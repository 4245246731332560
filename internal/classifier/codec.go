package classifier

import "errors"

// LabelCodec maps class indices to human-readable names for one label
// dimension. Class ordering is whatever the training run assigned; it is an
// opaque bijection baked into the artifact, not alphabetical.
type LabelCodec struct {
	label   string
	classes []string
}

// NewLabelCodec wraps the ordered class list for a label dimension.
func NewLabelCodec(label string, classes []string) (*LabelCodec, error) {
	if len(classes) == 0 {
		return nil, errors.New("codec has no classes")
	}
	return &LabelCodec{label: label, classes: classes}, nil
}

// Classes returns the number of known classes.
func (c *LabelCodec) Classes() int {
	return len(c.classes)
}

// Names returns the class names in code order.
func (c *LabelCodec) Names() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// Decode resolves a class index to its name. An out-of-range code means the
// classifier and codec artifacts disagree; it surfaces as InvalidCodeError
// rather than falling back to any default label.
func (c *LabelCodec) Decode(code int) (string, error) {
	if code < 0 || code >= len(c.classes) {
		return "", &InvalidCodeError{Label: c.label, Code: code, Classes: len(c.classes)}
	}
	return c.classes[code], nil
}
