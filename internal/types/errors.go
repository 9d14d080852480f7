package types

import (
	"errors"
	"fmt"
)

var (
	ErrMissingArtifact    = errors.New("missing artifact")
	ErrMalformedReference = errors.New("malformed reference")
	ErrInvalidShotList    = errors.New("invalid shot list")
)

// MissingArtifactError names the required input file that could not be found.
type MissingArtifactError struct {
	Kind string
	Path string
}

func (e *MissingArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing %s artifact: no path given", e.Kind)
	}
	return fmt.Sprintf("missing %s artifact: %s", e.Kind, e.Path)
}

func (e *MissingArtifactError) Unwrap() error { return ErrMissingArtifact }

// ReferenceError reports a frame or clip pointing at a state id that its
// owner's timeline does not contain.
type ReferenceError struct {
	Source  string
	Owner   string
	StateID string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("malformed reference: %s references state %q not present in %s", e.Source, e.StateID, e.Owner)
}

func (e *ReferenceError) Unwrap() error { return ErrMalformedReference }
