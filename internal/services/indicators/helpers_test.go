package indicators

import (
	"math"
	"math/rand"
	"time"

	"SignalForge/internal/domain/models"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds bars with open == close and a fixed spread around the close.
func seriesFromCloses(closes []float64, spread, volume float64) *models.Series {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * 15 * time.Minute),
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    volume,
		}
	}
	return models.NewSeries("XRPUSDT", "15m", bars)
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func constant(n int, v float64) []float64 { return linear(n, v, 0) }

// randomSeries is a seeded random walk with valid OHLCV bars.
func randomSeries(seed int64, n int) *models.Series {
	r := rand.New(rand.NewSource(seed))
	bars := make([]models.Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		price = math.Max(1, price*(1+(r.Float64()-0.5)*0.04))
		hi := math.Max(open, price) * (1 + r.Float64()*0.01)
		lo := math.Min(open, price) * (1 - r.Float64()*0.01)
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      open,
			High:      hi,
			Low:       lo,
			Close:     price,
			Volume:    1000 + r.Float64()*5000,
		}
	}
	return models.NewSeries("XRPUSDT", "1H", bars)
}

func mustNew(name string, p Params) Indicator {
	ind, err := New(name, p)
	if err != nil {
		panic(err)
	}
	return ind
}

func nan() float64 { return math.NaN() }
