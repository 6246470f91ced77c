package sources

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrInvalidIdentifier = errors.New("invalid source identifier")
	ErrNoRoots           = errors.New("at least one source root is required")
)

// ResolutionError records why a single identifier could not be resolved.
type ResolutionError struct {
	Identifier string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve source %q: %v", e.Identifier, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
