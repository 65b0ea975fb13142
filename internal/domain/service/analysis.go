package service

import (
	"context"

	"SignalForge/internal/domain/models"
)

// StructureAnalyzer describes the trend, swing structure, key levels and volume of a series.
type StructureAnalyzer interface {
	Analyze(s *models.Series) models.Structure
}

// SignalAnalyzer runs one full analysis cycle for a symbol.
type SignalAnalyzer interface {
	Run(ctx context.Context, symbol string) (*models.AnalysisResult, error)
}

// ResultCache holds the latest result per symbol.
type ResultCache interface {
	Put(ctx context.Context, r *models.AnalysisResult) error
	Latest(ctx context.Context, symbol string) (*models.AnalysisResult, bool, error)
}
