package repository

import (
	"context"

	"SignalForge/internal/domain/models"
)

// BarSource provides read-only access to the latest bars of a symbol.
type BarSource interface {
	GetLatestBars(ctx context.Context, symbol string, tf Timeframe, n int) (*models.Series, error)
}

// SignalStore persists cycle results and serves recent history.
type SignalStore interface {
	Save(ctx context.Context, r *models.AnalysisResult) error
	Recent(ctx context.Context, symbol string, limit int) ([]models.SignalRecord, error)
}

// SignalPublisher fans cycle results out to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, r *models.AnalysisResult) error
	Close() error
}

type Metrics interface {
	RecordCycle(symbol string, seconds float64)
	RecordFinalSignal(symbol string, f models.FinalSignal)
	RecordIndicatorFailure(timeframe, indicator string)
	RecordMissingTimeframe(timeframe string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
