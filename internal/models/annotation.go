package models

import (
	"errors"
	"fmt"
)

// Annotation marks where tainted input enters an exemplar (source) and
// where it is unsafely consumed (sink)
type Annotation struct {
	File       string `json:"file"`
	SourceLine int    `json:"source_line"`
	SinkLine   int    `json:"sink_line"`

	// Ordinal distinguishes independent instances of the same kind; 0 when
	// the kind has a single instance
	Ordinal int `json:"ordinal,omitempty"`
}

// Validate checks that both lines are positive, resolved against a named
// file, and that the sink does not precede the source
func (a Annotation) Validate() error {
	if a.File == "" {
		return errors.New("annotation has no file")
	}
	if a.SourceLine <= 0 || a.SinkLine <= 0 {
		return fmt.Errorf("annotation %s: line numbers must be positive", a)
	}
	if a.SinkLine < a.SourceLine {
		return fmt.Errorf("annotation %s: sink precedes source", a)
	}
	if a.Ordinal < 0 {
		return fmt.Errorf("annotation %s: negative ordinal", a)
	}
	return nil
}

// String returns a compact file:source->sink form
func (a Annotation) String() string {
	s := fmt.Sprintf("%s:%d->%d", a.File, a.SourceLine, a.SinkLine)
	if a.Ordinal > 0 {
		s += fmt.Sprintf("#%d", a.Ordinal)
	}
	return s
}
