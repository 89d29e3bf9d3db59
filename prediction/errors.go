package prediction

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned when a score is requested before any
// model has been trained or loaded.
var ErrModelUnavailable = errors.New("model not trained")

// InsufficientDataError is returned by Train when fewer than the minimum
// number of valid samples remain after filtering.
type InsufficientDataError struct {
	Valid int
	Min   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("training requires at least %d valid samples, got %d", e.Min, e.Valid)
}
