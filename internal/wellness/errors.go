package wellness

import (
	"errors"
	"fmt"
)

// ErrValidation matches every error returned by Normalize.
var ErrValidation = errors.New("wellness: invalid check-in")

// Bound is an inclusive integer range.
type Bound struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (b Bound) String() string { return fmt.Sprintf("[%d,%d]", b.Min, b.Max) }

func (b Bound) contains(v int) bool { return v >= b.Min && v <= b.Max }

// OutOfRangeError reports a field that is missing, non-integral or outside
// its declared bound. Value holds the raw input as text.
type OutOfRangeError struct {
	Field string
	Value string
	Bound Bound
}

func (e *OutOfRangeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s is required and must be an integer in %s", e.Field, e.Bound)
	}
	return fmt.Sprintf("%s value %q is outside %s", e.Field, e.Value, e.Bound)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrValidation }

// InvalidTimestampError reports a completion time that could not be parsed.
type InvalidTimestampError struct {
	Value string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("timestamp %q is not a valid point in time", e.Value)
}

func (e *InvalidTimestampError) Is(target error) bool { return target == ErrValidation }
