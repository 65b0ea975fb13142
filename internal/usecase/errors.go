package usecase

import (
	"errors"
	"fmt"
)

var ErrMissingTimeframe = errors.New("missing timeframe data")

// MissingTimeframeError marks a timeframe excluded from aggregation because its
// bars could not be obtained or were unusable.
type MissingTimeframeError struct {
	Timeframe string
	Cause     error
}

func (e *MissingTimeframeError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("timeframe %s: no data", e.Timeframe)
	}
	return fmt.Sprintf("timeframe %s: %v", e.Timeframe, e.Cause)
}

func (e *MissingTimeframeError) Unwrap() error { return e.Cause }

func (e *MissingTimeframeError) Is(target error) bool { return target == ErrMissingTimeframe }
