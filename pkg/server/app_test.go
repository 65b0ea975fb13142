package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
)

type countingAnalyzer struct {
	runs atomic.Int32
	fail bool
}

func (c *countingAnalyzer) Run(_ context.Context, symbol string) (*models.AnalysisResult, error) {
	c.runs.Add(1)
	if c.fail {
		return nil, errors.New("no data")
	}
	return &models.AnalysisResult{Symbol: symbol}, nil
}

func TestRunOnce(t *testing.T) {
	a := New(&countingAnalyzer{}, nil, nil, "XRPUSDT", time.Minute)
	res, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "XRPUSDT", res.Symbol)
}

func TestRunLoopsUntilCancelled(t *testing.T) {
	an := &countingAnalyzer{fail: true}
	a := New(an, nil, nil, "XRPUSDT", time.Hour)
	a.SetInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return an.runs.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
