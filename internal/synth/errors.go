package synth

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned once the synthesizer has been closed
var ErrUnavailable = errors.New("synthesizer unavailable")

// SynthesisError reports a failed generation
type SynthesisError struct {
	Prompt string
	Err    error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// IsSynthesisError checks if an error is a synthesis error
func IsSynthesisError(err error) bool {
	var synthErr *SynthesisError
	return errors.As(err, &synthErr)
}

// ValidationError reports a training example rejected before it was recorded
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid training example: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
