package indicators

import (
	"math"

	"SignalForge/internal/domain/models"
)

// bandSignal is the mean-reversion read of a channel: above the upper band is SHORT.
func bandSignal(price, upper, lower float64) models.Direction {
	switch {
	case isNaN(price, upper, lower):
		return models.Neutral
	case price > upper:
		return models.Short
	case price < lower:
		return models.Long
	}
	return models.Neutral
}

// ---- Bollinger Bands ----

type BollingerConfig struct {
	Period int
	StdDev float64
}

func DefaultBollingerConfig() BollingerConfig { return BollingerConfig{Period: 20, StdDev: 2} }

func BollingerConfigFrom(p Params) BollingerConfig {
	d := DefaultBollingerConfig()
	return BollingerConfig{
		Period: p.Int("period", d.Period),
		StdDev: p.Float("std_dev", d.StdDev),
	}
}

func (c BollingerConfig) validate() error { return positive("period", c.Period) }

func NewBollinger(cfg BollingerConfig) Indicator {
	return newIndicator("bollinger_bands", KindBollinger, &bollinger{cfg: cfg})
}

type bollinger struct{ cfg BollingerConfig }

func (b *bollinger) minBars() int { return max(b.cfg.Period, 2) }

func (b *bollinger) calculate(s *models.Series) output {
	closes := s.Closes()
	middle := RollingMean(closes, b.cfg.Period)
	std := rollingStd(closes, b.cfg.Period)
	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = middle[i] + b.cfg.StdDev*std[i]
		lower[i] = middle[i] - b.cfg.StdDev*std[i]
	}
	return newOutput().add("upper", upper).add("middle", middle).add("lower", lower)
}

func (b *bollinger) classify(s *models.Series, o output) models.Direction {
	return bandSignal(s.Last().Close, o.value("upper"), o.value("lower"))
}

// ---- ATR ----

type ATRConfig struct {
	Period         int
	HighVolatility float64
	LowVolatility  float64
}

func DefaultATRConfig() ATRConfig {
	return ATRConfig{Period: 14, HighVolatility: 0.02, LowVolatility: 0.005}
}

func ATRConfigFrom(p Params) ATRConfig {
	d := DefaultATRConfig()
	return ATRConfig{
		Period:         p.Int("period", d.Period),
		HighVolatility: p.Float("high_ratio", d.HighVolatility),
		LowVolatility:  p.Float("low_ratio", d.LowVolatility),
	}
}

func (c ATRConfig) validate() error { return positive("period", c.Period) }

// NewATR reads the volatility regime from ATR relative to price. It is not directional:
// LONG marks an expanding range and SHORT a quiet one.
func NewATR(cfg ATRConfig) Indicator { return newIndicator("atr", KindATR, &atr{cfg: cfg}) }

type atr struct{ cfg ATRConfig }

func (a *atr) minBars() int { return a.cfg.Period }

func (a *atr) calculate(s *models.Series) output {
	tr := trueRange(s.Highs(), s.Lows(), s.Closes())
	return newOutput().add("atr", RollingMean(tr, a.cfg.Period))
}

func (a *atr) classify(s *models.Series, o output) models.Direction {
	v, price := o.value("atr"), s.Last().Close
	if math.IsNaN(v) || price <= 0 {
		return models.Neutral
	}
	switch ratio := v / price; {
	case ratio > a.cfg.HighVolatility:
		return models.Long
	case ratio < a.cfg.LowVolatility:
		return models.Short
	}
	return models.Neutral
}

// ---- Keltner Channels ----

type KeltnerConfig struct {
	EMAPeriod  int
	ATRPeriod  int
	Multiplier float64
}

func DefaultKeltnerConfig() KeltnerConfig {
	return KeltnerConfig{EMAPeriod: 20, ATRPeriod: 10, Multiplier: 2}
}

func KeltnerConfigFrom(p Params) KeltnerConfig {
	d := DefaultKeltnerConfig()
	return KeltnerConfig{
		EMAPeriod:  p.Int("ema_period", d.EMAPeriod),
		ATRPeriod:  p.Int("atr_period", d.ATRPeriod),
		Multiplier: p.Float("multiplier", d.Multiplier),
	}
}

func (c KeltnerConfig) validate() error {
	return firstErr(positive("ema_period", c.EMAPeriod), positive("atr_period", c.ATRPeriod))
}

func NewKeltner(cfg KeltnerConfig) Indicator {
	return newIndicator("keltner_channels", KindKeltner, &keltner{cfg: cfg})
}

type keltner struct{ cfg KeltnerConfig }

func (k *keltner) minBars() int { return max(k.cfg.EMAPeriod, k.cfg.ATRPeriod) }

func (k *keltner) calculate(s *models.Series) output {
	closes := s.Closes()
	middle := EMA(closes, k.cfg.EMAPeriod)
	rng := RollingMean(trueRange(s.Highs(), s.Lows(), closes), k.cfg.ATRPeriod)
	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = middle[i] + k.cfg.Multiplier*rng[i]
		lower[i] = middle[i] - k.cfg.Multiplier*rng[i]
	}
	return newOutput().add("upper", upper).add("middle", middle).add("lower", lower)
}

func (k *keltner) classify(s *models.Series, o output) models.Direction {
	return bandSignal(s.Last().Close, o.value("upper"), o.value("lower"))
}
