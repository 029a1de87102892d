package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatUnrecognized means no detector probe matched the file. It aborts
	// the whole import and should reach the end user as "file not understood".
	ErrFormatUnrecognized = errors.New("statement format not recognized")

	// ErrUnsupportedFormat means dispatch received a tag with no registered
	// extractor, which indicates drift between the detector and the registry.
	ErrUnsupportedFormat = errors.New("unsupported statement format")

	// ErrUnrecognizedValue is the root of every SemanticError.
	ErrUnrecognizedValue = errors.New("unrecognized value in closed vocabulary")
)

// SemanticError is raised when an issuer rule refuses to guess a value outside
// its closed vocabulary. Unlike a dropped row it aborts the parse of the file.
type SemanticError struct {
	Format Format
	Page   int
	Line   string
	Value  string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: page %d: unrecognized value %q in line %q", e.Format, e.Page, e.Value, e.Line)
}

func (e *SemanticError) Unwrap() error {
	return ErrUnrecognizedValue
}
