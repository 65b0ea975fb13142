package indicators

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Warm-up positions and windows touching an undefined value are NaN throughout this file.

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func last(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return x[len(x)-1]
}

// fromEnd returns x[len(x)-k], or NaN when out of range.
func fromEnd(x []float64, k int) float64 {
	if k < 1 || k > len(x) {
		return math.NaN()
	}
	return x[len(x)-k]
}

func isNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// talib fills its lookback with zeros; replace it with NaN.
func maskWarmup(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

func rolling(x []float64, period int, fn func(w []float64) float64) []float64 {
	out := nanSeries(len(x))
	if period < 1 {
		return out
	}
	for i := period - 1; i < len(x); i++ {
		w := x[i-period+1 : i+1]
		if floats.HasNaN(w) {
			continue
		}
		out[i] = fn(w)
	}
	return out
}

// RollingMean is the simple moving average over period.
func RollingMean(x []float64, period int) []float64 {
	return rolling(x, period, func(w []float64) float64 { return stat.Mean(w, nil) })
}

// RollingSum sums each full window.
func RollingSum(x []float64, period int) []float64 {
	return rolling(x, period, floats.Sum)
}

// rollingStd is the sample (n-1) standard deviation.
func rollingStd(x []float64, period int) []float64 {
	return rolling(x, period, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}
		return stat.StdDev(w, nil)
	})
}

func rollingMeanAbsDev(x []float64, period int) []float64 {
	return rolling(x, period, func(w []float64) float64 {
		m := stat.Mean(w, nil)
		var sum float64
		for _, v := range w {
			sum += math.Abs(v - m)
		}
		return sum / float64(len(w))
	})
}

func rollingMax(x []float64, period int) []float64 {
	switch {
	case period < 1 || len(x) < period:
		return nanSeries(len(x))
	case period == 1:
		return append([]float64(nil), x...)
	}
	return maskWarmup(talib.Max(x, period), period-1)
}

func rollingMin(x []float64, period int) []float64 {
	switch {
	case period < 1 || len(x) < period:
		return nanSeries(len(x))
	case period == 1:
		return append([]float64(nil), x...)
	}
	return maskWarmup(talib.Min(x, period), period-1)
}

// EMA is the recursive exponential average seeded with the first defined value,
// alpha = 2/(period+1). An undefined input carries the previous value forward.
func EMA(x []float64, period int) []float64 {
	out := nanSeries(len(x))
	if period < 1 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	prev := math.NaN()
	for i, v := range x {
		switch {
		case math.IsNaN(v):
		case math.IsNaN(prev):
			prev = v
		default:
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

// trueRange is max(h-l, |h-prevClose|, |l-prevClose|); the first bar uses h-l.
func trueRange(highs, lows, closes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	tr := talib.TRange(highs, lows, closes)
	tr[0] = highs[0] - lows[0]
	return tr
}

func typicalPrice(highs, lows, closes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	return talib.TypPrice(highs, lows, closes)
}

// shift moves x forward by n bars (backward when n < 0), padding with NaN.
func shift(x []float64, n int) []float64 {
	out := nanSeries(len(x))
	for i := range x {
		j := i - n
		if j >= 0 && j < len(x) {
			out[i] = x[j]
		}
	}
	return out
}

func midpoint(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = (a[i] + b[i]) / 2
	}
	return out
}
