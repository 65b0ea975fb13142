package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalForge/internal/domain/models"
)

func directions(long, short, neutral int) []models.Direction {
	out := make([]models.Direction, 0, long+short+neutral)
	for i := 0; i < long; i++ {
		out = append(out, models.Long)
	}
	for i := 0; i < short; i++ {
		out = append(out, models.Short)
	}
	for i := 0; i < neutral; i++ {
		out = append(out, models.Neutral)
	}
	return out
}

func TestWeightSignals(t *testing.T) {
	tests := []struct {
		name       string
		long       int
		short      int
		neutral    int
		direction  models.Direction
		confidence float64
	}{
		{"clear long", 7, 1, 2, models.Long, 70},
		{"clear short", 1, 8, 1, models.Short, 80},
		{"exactly sixty is not enough", 6, 2, 2, models.Neutral, 60},
		{"split", 4, 4, 2, models.Neutral, 40},
		{"all neutral", 0, 0, 5, models.Neutral, 0},
		{"empty", 0, 0, 0, models.Neutral, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := WeightSignals(directions(tt.long, tt.short, tt.neutral))
			assert.Equal(t, tt.direction, ws.Direction)
			assert.InDelta(t, tt.confidence, ws.Confidence, 1e-9)
			assert.Equal(t, tt.long, ws.LongCount)
			assert.Equal(t, tt.short, ws.ShortCount)
			assert.Equal(t, tt.long+tt.short+tt.neutral, ws.TotalIndicators)
			assert.LessOrEqual(t, ws.LongCount+ws.ShortCount, ws.TotalIndicators)
		})
	}
}

func TestWeightSignalsDirectionIffMajority(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for long := 0; long <= total; long++ {
			for short := 0; long+short <= total; short++ {
				ws := WeightSignals(directions(long, short, total-long-short))
				longPct := float64(long) / float64(total) * 100
				assert.Equal(t, longPct > 60, ws.Direction == models.Long, "long=%d short=%d total=%d", long, short, total)
			}
		}
	}
}

func contribution(tf string, priority int, weight float64, long, short int, dir models.Direction) Contribution {
	return Contribution{
		Timeframe: tf,
		Priority:  priority,
		Weight:    weight,
		Signal:    models.WeightedSignal{Direction: dir, LongCount: long, ShortCount: short, TotalIndicators: long + short},
	}
}

func TestAggregateFinalDominance(t *testing.T) {
	final := AggregateFinal([]Contribution{
		contribution("1D", 1, 4, 18, 0, models.Long),
		contribution("4H", 2, 5, 0, 10, models.Short),
	}, 10)
	assert.Equal(t, 72.0, final.WeightedLongScore)
	assert.Equal(t, 50.0, final.WeightedShortScore)
	assert.Equal(t, 122.0, final.TotalSignal)
	assert.Equal(t, models.Long, final.Direction)
	assert.InDelta(t, 59.0, final.Confidence, 0.05)
	assert.InDelta(t, 72.0/122*100, final.LongPercentage, 1e-9)
	assert.InDelta(t, 100, final.LongPercentage+final.ShortPercentage, 1e-9)
}

func TestAggregateFinalBelowThreshold(t *testing.T) {
	final := AggregateFinal([]Contribution{
		contribution("1D", 1, 4, 10, 0, models.Long),
	}, 50)
	assert.Equal(t, 40.0, final.TotalSignal)
	assert.Equal(t, models.Neutral, final.Direction)
	assert.Equal(t, 0.0, final.Confidence)
	assert.Equal(t, 50.0, final.Threshold)
}

func TestAggregateFinalNoDominance(t *testing.T) {
	final := AggregateFinal([]Contribution{
		contribution("1D", 1, 1, 55, 0, models.Long),
		contribution("4H", 2, 1, 0, 50, models.Short),
	}, 10)
	assert.Equal(t, models.Neutral, final.Direction)
	assert.Equal(t, 0.0, final.Confidence)
}

func TestAggregateFinalShort(t *testing.T) {
	final := AggregateFinal([]Contribution{
		contribution("1D", 1, 4, 0, 9, models.Short),
		contribution("1H", 3, 2, 2, 1, models.Neutral),
	}, 10)
	assert.Equal(t, models.Short, final.Direction)
	assert.Equal(t, 100.0, final.Confidence)
	assert.Equal(t, 0.0, final.WeightedLongScore)
}

func TestAggregateFinalZeroThresholdNoSignals(t *testing.T) {
	final := AggregateFinal(nil, 0)
	assert.Equal(t, models.Neutral, final.Direction)
	assert.Equal(t, 0.0, final.Confidence)
	assert.Equal(t, 0.0, final.LongPercentage)
}

func TestAggregateFinalMonotonicInWeight(t *testing.T) {
	base := []Contribution{
		contribution("1D", 1, 2, 8, 1, models.Long),
		contribution("4H", 2, 3, 1, 7, models.Short),
	}
	prev := AggregateFinal(base, 0).WeightedLongScore
	for w := 2.5; w <= 10; w += 0.5 {
		base[0].Weight = w
		cur := AggregateFinal(base, 0).WeightedLongScore
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestAggregateFinalOrderIndependent(t *testing.T) {
	a := []Contribution{
		contribution("1D", 1, 4, 9, 0, models.Long),
		contribution("1H", 3, 2, 0, 7, models.Short),
		contribution("4H", 2, 3, 8, 1, models.Long),
	}
	b := []Contribution{a[2], a[1], a[0]}
	assert.Equal(t, AggregateFinal(a, 10), AggregateFinal(b, 10))
}
