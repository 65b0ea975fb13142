package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	"SignalForge/internal/services/indicators"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// trending builds n bars whose closes move by step per bar.
func trending(tf domrepo.Timeframe, n int, start, step float64) *models.Series {
	bars := make([]models.Bar, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * tf.Duration()),
			Open:      c,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    1000,
		}
	}
	return models.NewSeries("XRPUSDT", string(tf), bars)
}

func emaSpec(tfs ...domrepo.Timeframe) []IndicatorSpec {
	return []IndicatorSpec{
		{Name: "ema_20", Enabled: true, Timeframes: tfs},
		{Name: "ema_50", Enabled: true, Timeframes: tfs},
	}
}

type failingIndicator struct{}

func (failingIndicator) Name() string                             { return "broken" }
func (failingIndicator) Kind() indicators.Kind                    { return indicators.KindRSI }
func (failingIndicator) MinBars() int                             { return 1 }
func (failingIndicator) Validate(*models.Series) error            { return nil }
func (failingIndicator) Classify(*models.Series) models.Direction { return models.Neutral }
func (failingIndicator) Compute(*models.Series) (*models.IndicatorResult, error) {
	return nil, &indicators.ComputeError{Indicator: "broken", Cause: errors.New("boom")}
}

type stubSource struct {
	series map[domrepo.Timeframe]*models.Series
	errs   map[domrepo.Timeframe]error

	mu        sync.Mutex
	requested map[domrepo.Timeframe]int
}

func (s *stubSource) GetLatestBars(_ context.Context, _ string, tf domrepo.Timeframe, n int) (*models.Series, error) {
	s.mu.Lock()
	if s.requested == nil {
		s.requested = map[domrepo.Timeframe]int{}
	}
	s.requested[tf] = n
	s.mu.Unlock()
	if err := s.errs[tf]; err != nil {
		return nil, err
	}
	return s.series[tf], nil
}

type countingMetrics struct {
	mu       sync.Mutex
	cycles   int
	failures map[string]int
	missing  map[string]int
	errs     map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{failures: map[string]int{}, missing: map[string]int{}, errs: map[string]int{}}
}

func (m *countingMetrics) RecordCycle(string, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles++
}

func (m *countingMetrics) RecordFinalSignal(string, models.FinalSignal) {}

func (m *countingMetrics) RecordIndicatorFailure(tf, ind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[tf+"/"+ind]++
}

func (m *countingMetrics) RecordMissingTimeframe(tf string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing[tf]++
}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

func (m *countingMetrics) RecordLatency(string, float64) {}

var _ domrepo.Metrics = (*countingMetrics)(nil)
