package indicators

import (
	"fmt"
	"math"

	"SignalForge/internal/domain/models"
)

// ---- MACD ----

type MACDConfig struct {
	Fast   int
	Slow   int
	Signal int
}

func DefaultMACDConfig() MACDConfig { return MACDConfig{Fast: 12, Slow: 26, Signal: 9} }

func MACDConfigFrom(p Params) MACDConfig {
	d := DefaultMACDConfig()
	return MACDConfig{
		Fast:   p.Int("fast_period", d.Fast),
		Slow:   p.Int("slow_period", d.Slow),
		Signal: p.Int("signal_period", d.Signal),
	}
}

func (c MACDConfig) validate() error {
	return firstErr(positive("fast_period", c.Fast), positive("slow_period", c.Slow), positive("signal_period", c.Signal))
}

// NewMACD signals on a crossover of the MACD and signal lines between the last two bars.
func NewMACD(cfg MACDConfig) Indicator { return newIndicator("macd", KindMACD, &macd{cfg: cfg}) }

type macd struct{ cfg MACDConfig }

func (m *macd) minBars() int { return 2 }

func (m *macd) calculate(s *models.Series) output {
	closes := s.Closes()
	fast := EMA(closes, m.cfg.Fast)
	slow := EMA(closes, m.cfg.Slow)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := EMA(line, m.cfg.Signal)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}
	return newOutput().add("macd", line).add("signal", signal).add("histogram", hist)
}

func (m *macd) classify(_ *models.Series, o output) models.Direction {
	line, signal := o.get("macd"), o.get("signal")
	curM, prevM := fromEnd(line, 1), fromEnd(line, 2)
	curS, prevS := fromEnd(signal, 1), fromEnd(signal, 2)
	switch {
	case isNaN(curM, prevM, curS, prevS):
		return models.Neutral
	case curM > curS && prevM <= prevS:
		return models.Long
	case curM < curS && prevM >= prevS:
		return models.Short
	}
	return models.Neutral
}

// ---- EMA ----

type EMAConfig struct {
	Period int
}

func DefaultEMAConfig() EMAConfig { return EMAConfig{Period: 20} }

func EMAConfigFrom(p Params) EMAConfig {
	return EMAConfig{Period: p.Int("period", DefaultEMAConfig().Period)}
}

func (c EMAConfig) validate() error { return positive("period", c.Period) }

// NewEMA builds a price-vs-average indicator named "ema_<period>".
func NewEMA(cfg EMAConfig) Indicator {
	return newIndicator(fmt.Sprintf("ema_%d", cfg.Period), KindEMA, &ema{cfg: cfg})
}

type ema struct{ cfg EMAConfig }

func (e *ema) minBars() int { return e.cfg.Period }

func (e *ema) calculate(s *models.Series) output {
	return newOutput().add("ema", EMA(s.Closes(), e.cfg.Period))
}

func (e *ema) classify(s *models.Series, o output) models.Direction {
	return compare(s.Last().Close, o.value("ema"))
}

// compare is LONG above ref, SHORT below, NEUTRAL on equality or undefined ref.
func compare(price, ref float64) models.Direction {
	switch {
	case isNaN(price, ref):
		return models.Neutral
	case price > ref:
		return models.Long
	case price < ref:
		return models.Short
	}
	return models.Neutral
}

// ---- ADX ----

type ADXConfig struct {
	Period    int
	Threshold float64
}

func DefaultADXConfig() ADXConfig { return ADXConfig{Period: 14, Threshold: 25} }

func ADXConfigFrom(p Params) ADXConfig {
	d := DefaultADXConfig()
	return ADXConfig{
		Period:    p.Int("period", d.Period),
		Threshold: p.Float("threshold", d.Threshold),
	}
}

func (c ADXConfig) validate() error { return positive("period", c.Period) }

// NewADX follows the dominant directional index once trend strength exceeds the threshold.
// Equal indices stay NEUTRAL.
func NewADX(cfg ADXConfig) Indicator { return newIndicator("adx", KindADX, &adx{cfg: cfg}) }

type adx struct{ cfg ADXConfig }

func (a *adx) minBars() int { return 2 * a.cfg.Period }

func (a *adx) calculate(s *models.Series) output {
	highs, lows, closes := s.Highs(), s.Lows(), s.Closes()
	n := len(closes)
	tr := trueRange(highs, lows, closes)

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		// compared against the already filtered +DM
		if down > plusDM[i] && down > 0 {
			minusDM[i] = down
		}
	}

	atr := RollingMean(tr, a.cfg.Period)
	plusAvg := RollingMean(plusDM, a.cfg.Period)
	minusAvg := RollingMean(minusDM, a.cfg.Period)
	plusDI := nanSeries(n)
	minusDI := nanSeries(n)
	dx := nanSeries(n)
	for i := 0; i < n; i++ {
		if isNaN(atr[i]) || atr[i] == 0 {
			continue
		}
		plusDI[i] = 100 * plusAvg[i] / atr[i]
		minusDI[i] = 100 * minusAvg[i] / atr[i]
		if sum := plusDI[i] + minusDI[i]; sum != 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}
	return newOutput().
		add("adx", RollingMean(dx, a.cfg.Period)).
		add("plus_di", plusDI).
		add("minus_di", minusDI)
}

func (a *adx) classify(_ *models.Series, o output) models.Direction {
	v, plus, minus := o.value("adx"), o.value("plus_di"), o.value("minus_di")
	if isNaN(v, plus, minus) || v <= a.cfg.Threshold {
		return models.Neutral
	}
	switch {
	case plus > minus:
		return models.Long
	case minus > plus:
		return models.Short
	}
	// +DI == -DI: a strong trend with no side is NEUTRAL, not SHORT
	return models.Neutral
}

// ---- Ichimoku ----

type IchimokuConfig struct {
	Tenkan  int
	Kijun   int
	SenkouB int
}

func DefaultIchimokuConfig() IchimokuConfig { return IchimokuConfig{Tenkan: 9, Kijun: 26, SenkouB: 52} }

func IchimokuConfigFrom(p Params) IchimokuConfig {
	d := DefaultIchimokuConfig()
	return IchimokuConfig{
		Tenkan:  p.Int("tenkan_period", d.Tenkan),
		Kijun:   p.Int("kijun_period", d.Kijun),
		SenkouB: p.Int("senkou_b_period", d.SenkouB),
	}
}

func (c IchimokuConfig) validate() error {
	return firstErr(positive("tenkan_period", c.Tenkan), positive("kijun_period", c.Kijun), positive("senkou_b_period", c.SenkouB))
}

func NewIchimoku(cfg IchimokuConfig) Indicator {
	return newIndicator("ichimoku", KindIchimoku, &ichimoku{cfg: cfg})
}

type ichimoku struct{ cfg IchimokuConfig }

func (ic *ichimoku) minBars() int { return ic.cfg.SenkouB + ic.cfg.Kijun }

func (ic *ichimoku) calculate(s *models.Series) output {
	highs, lows, closes := s.Highs(), s.Lows(), s.Closes()
	tenkan := midpoint(rollingMax(highs, ic.cfg.Tenkan), rollingMin(lows, ic.cfg.Tenkan))
	kijun := midpoint(rollingMax(highs, ic.cfg.Kijun), rollingMin(lows, ic.cfg.Kijun))
	spanA := shift(midpoint(tenkan, kijun), ic.cfg.Kijun)
	spanB := shift(midpoint(rollingMax(highs, ic.cfg.SenkouB), rollingMin(lows, ic.cfg.SenkouB)), ic.cfg.Kijun)
	chikou := shift(closes, -ic.cfg.Kijun)

	o := newOutput().
		add("tenkan_sen", tenkan).
		add("kijun_sen", kijun).
		add("senkou_span_a", spanA).
		add("senkou_span_b", spanB).
		add("chikou_span", chikou)
	// the lagging span is never defined at the last bar; report the current close
	if math.IsNaN(o.values["chikou_span"]) {
		o.values["chikou_span"] = last(closes)
	}
	return o
}

func (ic *ichimoku) classify(s *models.Series, o output) models.Direction {
	price := s.Last().Close
	tenkan, kijun := o.value("tenkan_sen"), o.value("kijun_sen")
	spanA, spanB := o.value("senkou_span_a"), o.value("senkou_span_b")
	switch {
	case isNaN(tenkan, kijun, spanA, spanB):
		return models.Neutral
	case price > spanA && price > spanB && tenkan > kijun:
		return models.Long
	case price < spanA && price < spanB && tenkan < kijun:
		return models.Short
	}
	return models.Neutral
}
