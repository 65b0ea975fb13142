package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
)

func TestAnalysisCycleRun(t *testing.T) {
	m := newCountingMetrics()
	e := newEngine(t, EngineConfig{
		Timeframes: twoTimeframes(),
		Indicators: emaSpec(domrepo.TF1H, domrepo.TF15m),
		Threshold:  3,
	}, m)
	src := &stubSource{
		series: map[domrepo.Timeframe]*models.Series{
			domrepo.TF1H: trending(domrepo.TF1H, 100, 50, 0.5),
		},
		errs: map[domrepo.Timeframe]error{domrepo.TF15m: errors.New("exchange down")},
	}

	var got []*models.AnalysisResult
	ok := SinkFunc("collect", func(_ context.Context, r *models.AnalysisResult) error {
		got = append(got, r)
		return nil
	})
	failing := SinkFunc("broken", func(context.Context, *models.AnalysisResult) error {
		return errors.New("sink down")
	})

	c := NewAnalysisCycle(e, src, 120, time.Second, nil, m, failing, ok)
	res, err := c.Run(context.Background(), "XRPUSDT")
	require.NoError(t, err)

	assert.Equal(t, 120, src.requested[domrepo.TF1H])
	assert.Equal(t, models.Long, res.FinalSignal.Direction)
	require.Contains(t, res.Errors, "15m")
	assert.Contains(t, res.Errors["15m"], "exchange down")

	// a failing sink does not stop the others
	require.Len(t, got, 1)
	assert.Same(t, res, got[0])
	assert.Equal(t, 1, m.errs["sink_broken"])
	assert.Equal(t, 1, m.cycles)
}

func TestAnalysisCycleFetchesMaxLookback(t *testing.T) {
	e := newEngine(t, EngineConfig{
		Timeframes: twoTimeframes(),
		Indicators: []IndicatorSpec{{Name: "ema_200", Enabled: true, Timeframes: []domrepo.Timeframe{domrepo.TF1H}}},
	}, nil)
	src := &stubSource{}

	c := NewAnalysisCycle(e, src, 50, time.Second, nil, nil)
	res, err := c.Run(context.Background(), "XRPUSDT")
	require.NoError(t, err)
	assert.Equal(t, 200, src.requested[domrepo.TF1H])
	assert.Equal(t, 200, src.requested[domrepo.TF15m])
	assert.Equal(t, models.Neutral, res.FinalSignal.Direction)
}

func TestAnalysisCycleSinkOutlivesCancel(t *testing.T) {
	e := newEngine(t, EngineConfig{
		Timeframes: twoTimeframes(),
		Indicators: emaSpec(domrepo.TF1H),
	}, nil)
	src := &stubSource{series: map[domrepo.Timeframe]*models.Series{
		domrepo.TF1H: trending(domrepo.TF1H, 60, 50, 0.5),
	}}

	var sinkErr error
	c := NewAnalysisCycle(e, src, 60, time.Second, nil, nil, SinkFunc("check", func(ctx context.Context, _ *models.AnalysisResult) error {
		sinkErr = ctx.Err()
		return nil
	}))
	_, err := c.Run(context.Background(), "XRPUSDT")
	require.NoError(t, err)
	assert.NoError(t, sinkErr)
}
