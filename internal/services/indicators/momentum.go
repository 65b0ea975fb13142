package indicators

import (
	"math"

	"SignalForge/internal/domain/models"
)

// ---- RSI ----

type RSIConfig struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func DefaultRSIConfig() RSIConfig { return RSIConfig{Period: 14, Overbought: 70, Oversold: 30} }

func RSIConfigFrom(p Params) RSIConfig {
	d := DefaultRSIConfig()
	return RSIConfig{
		Period:     p.Int("period", d.Period),
		Overbought: p.Float("overbought", d.Overbought),
		Oversold:   p.Float("oversold", d.Oversold),
	}
}

func (c RSIConfig) validate() error { return positive("period", c.Period) }

// NewRSI builds a relative strength index over simple-average gains and losses.
func NewRSI(cfg RSIConfig) Indicator { return newIndicator("rsi", KindRSI, &rsi{cfg: cfg}) }

type rsi struct{ cfg RSIConfig }

func (r *rsi) minBars() int { return r.cfg.Period + 1 }

func (r *rsi) calculate(s *models.Series) output {
	closes := s.Closes()
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	avgGain := RollingMean(gains, r.cfg.Period)
	avgLoss := RollingMean(losses, r.cfg.Period)

	values := nanSeries(len(closes))
	for i := range closes {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case isNaN(g, l):
		case l <= 0 && g <= 0:
			// flat window: no movement to measure
		case l <= 0:
			values[i] = 100
		default:
			values[i] = 100 - 100/(1+g/l)
		}
	}
	return newOutput().add("rsi", values)
}

func (r *rsi) classify(_ *models.Series, o output) models.Direction {
	v := o.value("rsi")
	switch {
	case math.IsNaN(v):
		return models.Neutral
	case v > r.cfg.Overbought:
		return models.Short
	case v < r.cfg.Oversold:
		return models.Long
	}
	return models.Neutral
}

// ---- Stochastic ----

type StochasticConfig struct {
	KPeriod    int
	DPeriod    int
	Overbought float64
	Oversold   float64
}

func DefaultStochasticConfig() StochasticConfig {
	return StochasticConfig{KPeriod: 14, DPeriod: 3, Overbought: 80, Oversold: 20}
}

func StochasticConfigFrom(p Params) StochasticConfig {
	d := DefaultStochasticConfig()
	return StochasticConfig{
		KPeriod:    p.Int("k_period", d.KPeriod),
		DPeriod:    p.Int("d_period", d.DPeriod),
		Overbought: p.Float("overbought", d.Overbought),
		Oversold:   p.Float("oversold", d.Oversold),
	}
}

func (c StochasticConfig) validate() error {
	return firstErr(positive("k_period", c.KPeriod), positive("d_period", c.DPeriod))
}

func NewStochastic(cfg StochasticConfig) Indicator {
	return newIndicator("stochastic", KindStochastic, &stochastic{cfg: cfg})
}

type stochastic struct{ cfg StochasticConfig }

func (st *stochastic) minBars() int { return st.cfg.KPeriod + st.cfg.DPeriod - 1 }

func (st *stochastic) calculate(s *models.Series) output {
	closes := s.Closes()
	lowest := rollingMin(s.Lows(), st.cfg.KPeriod)
	highest := rollingMax(s.Highs(), st.cfg.KPeriod)
	k := nanSeries(len(closes))
	for i := range closes {
		rng := highest[i] - lowest[i]
		if isNaN(rng) || rng == 0 {
			continue
		}
		k[i] = 100 * (closes[i] - lowest[i]) / rng
	}
	return newOutput().add("k", k).add("d", RollingMean(k, st.cfg.DPeriod))
}

func (st *stochastic) classify(_ *models.Series, o output) models.Direction {
	k := o.value("k")
	switch {
	case math.IsNaN(k):
		return models.Neutral
	case k > st.cfg.Overbought:
		return models.Short
	case k < st.cfg.Oversold:
		return models.Long
	}
	return models.Neutral
}

// ---- Williams %R ----

type WilliamsRConfig struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func DefaultWilliamsRConfig() WilliamsRConfig {
	return WilliamsRConfig{Period: 14, Overbought: -20, Oversold: -80}
}

func WilliamsRConfigFrom(p Params) WilliamsRConfig {
	d := DefaultWilliamsRConfig()
	return WilliamsRConfig{
		Period:     p.Int("period", d.Period),
		Overbought: p.Float("overbought", d.Overbought),
		Oversold:   p.Float("oversold", d.Oversold),
	}
}

func (c WilliamsRConfig) validate() error { return positive("period", c.Period) }

func NewWilliamsR(cfg WilliamsRConfig) Indicator {
	return newIndicator("williams_r", KindWilliamsR, &williamsR{cfg: cfg})
}

type williamsR struct{ cfg WilliamsRConfig }

func (w *williamsR) minBars() int { return w.cfg.Period }

func (w *williamsR) calculate(s *models.Series) output {
	closes := s.Closes()
	highest := rollingMax(s.Highs(), w.cfg.Period)
	lowest := rollingMin(s.Lows(), w.cfg.Period)
	wr := nanSeries(len(closes))
	for i := range closes {
		rng := highest[i] - lowest[i]
		if isNaN(rng) || rng == 0 {
			continue
		}
		wr[i] = -100 * (highest[i] - closes[i]) / rng
	}
	return newOutput().add("williams_r", wr)
}

func (w *williamsR) classify(_ *models.Series, o output) models.Direction {
	v := o.value("williams_r")
	switch {
	case math.IsNaN(v):
		return models.Neutral
	case v > w.cfg.Overbought:
		return models.Short
	case v < w.cfg.Oversold:
		return models.Long
	}
	return models.Neutral
}

// ---- CCI ----

type CCIConfig struct {
	Period     int
	Constant   float64
	Overbought float64
	Oversold   float64
}

func DefaultCCIConfig() CCIConfig {
	return CCIConfig{Period: 20, Constant: 0.015, Overbought: 100, Oversold: -100}
}

func CCIConfigFrom(p Params) CCIConfig {
	d := DefaultCCIConfig()
	return CCIConfig{
		Period:     p.Int("period", d.Period),
		Constant:   p.Float("constant", d.Constant),
		Overbought: p.Float("overbought", d.Overbought),
		Oversold:   p.Float("oversold", d.Oversold),
	}
}

func (c CCIConfig) validate() error { return positive("period", c.Period) }

func NewCCI(cfg CCIConfig) Indicator { return newIndicator("cci", KindCCI, &cci{cfg: cfg}) }

type cci struct{ cfg CCIConfig }

func (c *cci) minBars() int { return c.cfg.Period }

func (c *cci) calculate(s *models.Series) output {
	tp := typicalPrice(s.Highs(), s.Lows(), s.Closes())
	mean := RollingMean(tp, c.cfg.Period)
	mad := rollingMeanAbsDev(tp, c.cfg.Period)
	values := nanSeries(len(tp))
	for i := range tp {
		if isNaN(mean[i], mad[i]) || mad[i] == 0 || c.cfg.Constant == 0 {
			continue
		}
		values[i] = (tp[i] - mean[i]) / (c.cfg.Constant * mad[i])
	}
	return newOutput().add("cci", values)
}

func (c *cci) classify(_ *models.Series, o output) models.Direction {
	v := o.value("cci")
	switch {
	case math.IsNaN(v):
		return models.Neutral
	case v > c.cfg.Overbought:
		return models.Short
	case v < c.cfg.Oversold:
		return models.Long
	}
	return models.Neutral
}

// ---- MFI ----

type MFIConfig struct {
	Period     int
	Overbought float64
	Oversold   float64
}

func DefaultMFIConfig() MFIConfig { return MFIConfig{Period: 14, Overbought: 80, Oversold: 20} }

func MFIConfigFrom(p Params) MFIConfig {
	d := DefaultMFIConfig()
	return MFIConfig{
		Period:     p.Int("period", d.Period),
		Overbought: p.Float("overbought", d.Overbought),
		Oversold:   p.Float("oversold", d.Oversold),
	}
}

func (c MFIConfig) validate() error { return positive("period", c.Period) }

// NewMFI builds the money flow index. A window without negative flow is undefined.
func NewMFI(cfg MFIConfig) Indicator { return newIndicator("mfi", KindMFI, &mfi{cfg: cfg}) }

type mfi struct{ cfg MFIConfig }

func (m *mfi) minBars() int { return m.cfg.Period + 1 }

func (m *mfi) calculate(s *models.Series) output {
	tp := typicalPrice(s.Highs(), s.Lows(), s.Closes())
	vols := s.Volumes()
	pos := make([]float64, len(tp))
	neg := make([]float64, len(tp))
	for i := 1; i < len(tp); i++ {
		flow := tp[i] * vols[i]
		switch {
		case tp[i] > tp[i-1]:
			pos[i] = flow
		case tp[i] < tp[i-1]:
			neg[i] = flow
		}
	}
	posSum := RollingSum(pos, m.cfg.Period)
	negSum := RollingSum(neg, m.cfg.Period)
	values := nanSeries(len(tp))
	for i := range tp {
		if isNaN(posSum[i], negSum[i]) || negSum[i] <= 0 {
			continue
		}
		values[i] = 100 - 100/(1+posSum[i]/negSum[i])
	}
	return newOutput().add("mfi", values)
}

func (m *mfi) classify(_ *models.Series, o output) models.Direction {
	v := o.value("mfi")
	switch {
	case math.IsNaN(v):
		return models.Neutral
	case v > m.cfg.Overbought:
		return models.Short
	case v < m.cfg.Oversold:
		return models.Long
	}
	return models.Neutral
}
