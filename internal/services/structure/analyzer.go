// Package structure describes the market context of a single timeframe: trend
// regime, swing structure, key price levels and volume activity. None of it
// feeds the signal vote; it is carried alongside for reporting.
package structure

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"

	"SignalForge/internal/domain/models"
	domsvc "SignalForge/internal/domain/service"
	"SignalForge/internal/services/indicators"
)

// Config holds the analyzer windows and ratios.
type Config struct {
	FastEMA     int     `yaml:"fast_ema" default:"20" validate:"gte=1"`
	SlowEMA     int     `yaml:"slow_ema" default:"50" validate:"gte=1"`
	SlopeBars   int     `yaml:"slope_bars" default:"10" validate:"gte=1"`
	SwingWindow int     `yaml:"swing_window" default:"5" validate:"gte=1"`
	LevelsKept  int     `yaml:"levels_kept" default:"5" validate:"gte=1"`
	FibLookback int     `yaml:"fib_lookback" default:"50" validate:"gte=1"`
	VolumeMA    int     `yaml:"volume_ma" default:"20" validate:"gte=1"`
	SpikeRatio  float64 `yaml:"spike_ratio" default:"1.5" validate:"gt=0"`
	VPTWindow   int     `yaml:"vpt_window" default:"5" validate:"gte=1"`
}

func DefaultConfig() Config {
	return Config{
		FastEMA:     20,
		SlowEMA:     50,
		SlopeBars:   10,
		SwingWindow: 5,
		LevelsKept:  5,
		FibLookback: 50,
		VolumeMA:    20,
		SpikeRatio:  1.5,
		VPTWindow:   5,
	}
}

// FibonacciRatios are the retracement steps measured down from the recent high.
var FibonacciRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer { return &Analyzer{cfg: cfg} }

var _ domsvc.StructureAnalyzer = (*Analyzer)(nil)

// Analyze computes every structure facet. An empty series yields the zero Structure.
func (a *Analyzer) Analyze(s *models.Series) models.Structure {
	if s.Len() == 0 {
		return models.Structure{
			Trend:     models.Trend{Direction: models.TrendNeutral, Strength: models.Undefined(), Slope20: models.Undefined(), Slope50: models.Undefined()},
			Structure: models.MarketStructure{Type: models.StructureRanging},
			Volume:    models.VolumeAnalysis{VolumeMA: models.Undefined(), RelativeVolume: models.Undefined(), VolumePriceTrend: models.Undefined()},
		}
	}
	closes := s.Closes()
	return models.Structure{
		Trend:     a.Trend(closes),
		Structure: a.MarketStructure(closes),
		Levels:    a.KeyLevels(s.Highs(), s.Lows()),
		Volume:    a.Volume(closes, s.Volumes()),
	}
}

// Trend classifies the fast/slow EMA regime and measures its slope.
func (a *Analyzer) Trend(closes []float64) models.Trend {
	fast := indicators.EMA(closes, a.cfg.FastEMA)
	slow := indicators.EMA(closes, a.cfg.SlowEMA)
	price, f, sl := closes[len(closes)-1], fast[len(fast)-1], slow[len(slow)-1]

	dir := models.TrendNeutral
	switch {
	case f > sl && price > f:
		dir = models.TrendBullish
	case f < sl && price < f:
		dir = models.TrendBearish
	}

	slopeFast := a.slope(fast)
	slopeSlow := a.slope(slow)
	return models.Trend{
		Direction: dir,
		Strength:  models.Number(math.Abs(slopeFast) + math.Abs(slopeSlow)),
		Slope20:   models.Number(slopeFast),
		Slope50:   models.Number(slopeSlow),
	}
}

func (a *Analyzer) slope(x []float64) float64 {
	n := a.cfg.SlopeBars
	if len(x) < n {
		return math.NaN()
	}
	return (x[len(x)-1] - x[len(x)-n]) / float64(n)
}

// MarketStructure finds swing points on closes and classifies their sequence.
func (a *Analyzer) MarketStructure(closes []float64) models.MarketStructure {
	w := a.cfg.SwingWindow
	ms := models.MarketStructure{Type: models.StructureRanging, SwingHighs: []models.SwingPoint{}, SwingLows: []models.SwingPoint{}}
	for i := w; i < len(closes)-w; i++ {
		window := closes[i-w : i+w+1]
		if closes[i] >= floats.Max(window) {
			ms.SwingHighs = append(ms.SwingHighs, models.SwingPoint{Index: i, Price: closes[i]})
		}
		if closes[i] <= floats.Min(window) {
			ms.SwingLows = append(ms.SwingLows, models.SwingPoint{Index: i, Price: closes[i]})
		}
	}

	if len(ms.SwingHighs) >= 2 && len(ms.SwingLows) >= 2 {
		switch {
		case monotonic(ms.SwingHighs, rising) && monotonic(ms.SwingLows, rising):
			ms.Type = models.StructureUptrend
		case monotonic(ms.SwingHighs, falling) && monotonic(ms.SwingLows, falling):
			ms.Type = models.StructureDowntrend
		}
	}
	return ms
}

func rising(prev, cur float64) bool  { return cur > prev }
func falling(prev, cur float64) bool { return cur < prev }

func monotonic(points []models.SwingPoint, ok func(prev, cur float64) bool) bool {
	for i := 1; i < len(points); i++ {
		if !ok(points[i-1].Price, points[i].Price) {
			return false
		}
	}
	return true
}

// KeyLevels collects strict 3-bar pivots and Fibonacci retracements of the recent range.
func (a *Analyzer) KeyLevels(highs, lows []float64) models.KeyLevels {
	var resistance, support []float64
	for i := 1; i < len(highs)-1; i++ {
		if highs[i] > highs[i-1] && highs[i] > highs[i+1] {
			resistance = append(resistance, highs[i])
		}
		if lows[i] < lows[i-1] && lows[i] < lows[i+1] {
			support = append(support, lows[i])
		}
	}

	start := max(0, len(highs)-a.cfg.FibLookback)
	hi, lo := floats.Max(highs[start:]), floats.Min(lows[start:])
	fib := make([]float64, len(FibonacciRatios))
	for i, r := range FibonacciRatios {
		fib[i] = hi - r*(hi-lo)
	}
	fib[len(fib)-1] = lo

	return models.KeyLevels{
		Support:    tail(support, a.cfg.LevelsKept),
		Resistance: tail(resistance, a.cfg.LevelsKept),
		Fibonacci:  fib,
	}
}

func tail(x []float64, n int) []float64 {
	if len(x) > n {
		x = x[len(x)-n:]
	}
	return append([]float64{}, x...)
}

// Volume compares the latest volume to its moving average and sums the volume-price trend.
func (a *Analyzer) Volume(closes, volumes []float64) models.VolumeAnalysis {
	n := len(volumes)
	va := models.VolumeAnalysis{
		CurrentVolume:    volumes[n-1],
		VolumeMA:         models.Undefined(),
		RelativeVolume:   models.Undefined(),
		VolumePriceTrend: models.Undefined(),
	}

	if p := a.cfg.VolumeMA; n >= p {
		var ma float64
		if p == 1 {
			ma = volumes[n-1]
		} else {
			ma = talib.Sma(volumes, p)[n-1]
		}
		va.VolumeMA = models.Number(ma)
		if ma > 0 {
			rel := volumes[n-1] / ma
			va.RelativeVolume = models.Number(rel)
			va.VolumeSpike = rel > a.cfg.SpikeRatio
		}
	}

	flow := make([]float64, n)
	flow[0] = math.NaN()
	for i := 1; i < n; i++ {
		if closes[i-1] == 0 {
			flow[i] = math.NaN()
			continue
		}
		flow[i] = (closes[i] - closes[i-1]) / closes[i-1] * volumes[i]
	}
	vpt := indicators.RollingSum(flow, a.cfg.VPTWindow)
	va.VolumePriceTrend = models.Number(vpt[n-1])
	return va
}
