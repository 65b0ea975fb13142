package structure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
)

func series(closes []float64, volume float64) *models.Series {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: time.Unix(int64(i)*3600, 0).UTC(),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: volume,
		}
	}
	return models.NewSeries("XRPUSDT", "4H", bars)
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// zigzag oscillates with the given amplitude around a drifting base.
func zigzag(n int, base, drift, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		phase := i % 12
		if phase > 6 {
			phase = 12 - phase
		}
		out[i] = base + drift*float64(i) + amp*float64(phase)
	}
	return out
}

func TestTrend(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	up := a.Trend(ramp(80, 100, 1))
	assert.Equal(t, models.TrendBullish, up.Direction)
	assert.Greater(t, up.Slope20.Float(), 0.0)
	assert.Greater(t, up.Slope50.Float(), 0.0)
	assert.InDelta(t, up.Slope20.Float()+up.Slope50.Float(), up.Strength.Float(), 1e-12)

	down := a.Trend(ramp(80, 200, -1))
	assert.Equal(t, models.TrendBearish, down.Direction)
	assert.Less(t, down.Slope20.Float(), 0.0)

	flat := a.Trend(ramp(80, 100, 0))
	assert.Equal(t, models.TrendNeutral, flat.Direction)
	assert.Equal(t, 0.0, flat.Strength.Float())

	short := a.Trend([]float64{1, 2, 3})
	assert.False(t, short.Slope20.Defined())
}

func TestMarketStructure(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	up := a.MarketStructure(zigzag(80, 100, 0.5, 2))
	require.GreaterOrEqual(t, len(up.SwingHighs), 2)
	require.GreaterOrEqual(t, len(up.SwingLows), 2)
	assert.Equal(t, models.StructureUptrend, up.Type)

	down := a.MarketStructure(zigzag(80, 200, -0.5, 2))
	assert.Equal(t, models.StructureDowntrend, down.Type)

	ranging := a.MarketStructure(zigzag(80, 100, 0, 2))
	assert.Equal(t, models.StructureRanging, ranging.Type)

	few := a.MarketStructure([]float64{1, 2, 3})
	assert.Equal(t, models.StructureRanging, few.Type)
	assert.Empty(t, few.SwingHighs)
}

func TestKeyLevels(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	highs := []float64{10, 12, 11, 13, 12, 14, 13}
	lows := []float64{9, 8, 10, 7, 11, 6, 12}

	lv := a.KeyLevels(highs, lows)
	assert.Equal(t, []float64{12, 13, 14}, lv.Resistance)
	assert.Equal(t, []float64{8, 7, 6}, lv.Support)
	require.Len(t, lv.Fibonacci, 7)
	assert.Equal(t, 14.0, lv.Fibonacci[0])
	assert.InDelta(t, 10.0, lv.Fibonacci[3], 1e-12)
	assert.Equal(t, 6.0, lv.Fibonacci[6])
	for i := 1; i < len(lv.Fibonacci); i++ {
		assert.LessOrEqual(t, lv.Fibonacci[i], lv.Fibonacci[i-1])
	}
}

func TestKeyLevelsKeepsMostRecent(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	z := zigzag(120, 100, 0, 2)
	lows := make([]float64, len(z))
	for i := range z {
		lows[i] = z[i] - 1
	}
	lv := a.KeyLevels(z, lows)
	assert.Len(t, lv.Resistance, 5)
	assert.Len(t, lv.Support, 5)
}

func TestVolume(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	closes := ramp(30, 100, 1)
	vols := make([]float64, 30)
	for i := range vols {
		vols[i] = 100
	}
	vols[29] = 400

	va := a.Volume(closes, vols)
	assert.Equal(t, 400.0, va.CurrentVolume)
	assert.InDelta(t, 115, va.VolumeMA.Float(), 1e-9)
	assert.InDelta(t, 400.0/115, va.RelativeVolume.Float(), 1e-9)
	assert.True(t, va.VolumeSpike)
	assert.True(t, va.VolumePriceTrend.Defined())
	assert.Greater(t, va.VolumePriceTrend.Float(), 0.0)

	quiet := a.Volume(closes[:10], vols[:10])
	assert.False(t, quiet.VolumeMA.Defined())
	assert.False(t, quiet.VolumeSpike)

	zero := a.Volume(closes, make([]float64, 30))
	assert.False(t, zero.RelativeVolume.Defined())
	assert.False(t, zero.VolumeSpike)
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	st := a.Analyze(series(ramp(100, 100, 1), 50))
	assert.Equal(t, models.TrendBullish, st.Trend.Direction)
	assert.Len(t, st.Levels.Fibonacci, 7)
	assert.Equal(t, 50.0, st.Volume.CurrentVolume)

	empty := a.Analyze(models.NewSeries("XRPUSDT", "4H", nil))
	assert.Equal(t, models.TrendNeutral, empty.Trend.Direction)
	assert.Equal(t, models.StructureRanging, empty.Structure.Type)
}
