package indicators

import (
	"errors"
	"fmt"
	"math"

	"SignalForge/internal/domain/models"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrComputeFailed    = errors.New("indicator computation failed")
	ErrUnknownIndicator = errors.New("unknown indicator")
)

// InvalidInputError reports a malformed bar series.
type InvalidInputError struct {
	Indicator string
	Index     int
	Reason    string
}

func (e *InvalidInputError) Error() string {
	prefix := "series"
	if e.Indicator != "" {
		prefix = e.Indicator
	}
	if e.Index < 0 {
		return fmt.Sprintf("%s: invalid input: %s", prefix, e.Reason)
	}
	return fmt.Sprintf("%s: invalid input at bar %d: %s", prefix, e.Index, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// ComputeError wraps a fault raised while computing an indicator.
type ComputeError struct {
	Indicator string
	Cause     error
	Stack     string
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: compute: %v", e.Indicator, e.Cause)
}

func (e *ComputeError) Unwrap() error { return e.Cause }

func (e *ComputeError) Is(target error) bool { return target == ErrComputeFailed }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ValidateSeries checks that s is non-empty, time-ascending, and that every bar
// is finite with low <= min(open, close) <= max(open, close) <= high and volume >= 0.
func ValidateSeries(s *models.Series) error {
	if s == nil || len(s.Bars) == 0 {
		return &InvalidInputError{Index: -1, Reason: "empty series"}
	}
	for i, b := range s.Bars {
		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) || !finite(b.Volume) {
			return &InvalidInputError{Index: i, Reason: "non-finite value"}
		}
		if b.Volume < 0 {
			return &InvalidInputError{Index: i, Reason: "negative volume"}
		}
		if b.Low < 0 {
			return &InvalidInputError{Index: i, Reason: "negative price"}
		}
		if b.Low > math.Min(b.Open, b.Close) || b.High < math.Max(b.Open, b.Close) {
			return &InvalidInputError{Index: i, Reason: "bar outside high/low range"}
		}
		if i > 0 && !b.Timestamp.IsZero() && b.Timestamp.Before(s.Bars[i-1].Timestamp) {
			return &InvalidInputError{Index: i, Reason: "timestamps not ascending"}
		}
	}
	return nil
}
