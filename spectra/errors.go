package spectra

import (
	"errors"
	"fmt"
)

// Errors shared by the spectrum loading and analysis packages.
var (
	ErrInsufficientData = errors.New("spectra: insufficient data")
	ErrMalformedInput   = errors.New("spectra: malformed input")
	ErrNoTemperature    = errors.New("spectra: no temperature found")
	ErrInvalidConfig    = errors.New("spectra: invalid configuration")
)

// MalformedInputError identifies the input that could not be turned into a
// spectrum. It matches [ErrMalformedInput] with errors.Is.
type MalformedInputError struct {
	Source string
	Line   int // 1-based; 0 when the problem is not tied to a line
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedInputError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrMalformedInput].
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// InvalidConfig returns an [ErrInvalidConfig] error describing one bad option.
func InvalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
