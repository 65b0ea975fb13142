package repository

import (
	"strings"
	"time"
)

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF1H  Timeframe = "1H"
	TF4H  Timeframe = "4H"
	TF1D  Timeframe = "1D"
)

// AllTimeframes lists the supported timeframes, shortest first.
func AllTimeframes() []Timeframe { return []Timeframe{TF15m, TF1H, TF4H, TF1D} }

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF15m, TF1H, TF4H, TF1D:
		return true
	default:
		return false
	}
}

// NormalizeTimeframe maps case variants ("1h", "1d", "15M") to the canonical timeframe.
func NormalizeTimeframe(s string) (Timeframe, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "15m":
		return TF15m, true
	case "1h":
		return TF1H, true
	case "4h":
		return TF4H, true
	case "1d":
		return TF1D, true
	default:
		return "", false
	}
}

// Duration returns the bucket width, or zero for an unknown timeframe.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF15m:
		return 15 * time.Minute
	case TF1H:
		return time.Hour
	case TF4H:
		return 4 * time.Hour
	case TF1D:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Interval is the lower-case exchange spelling ("15m", "1h", "4h", "1d").
func (tf Timeframe) Interval() string { return strings.ToLower(string(tf)) }

func (tf Timeframe) String() string { return string(tf) }
