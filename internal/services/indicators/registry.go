package indicators

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// KindOf resolves a configured indicator name. "ema_<period>" selects an EMA variant.
func KindOf(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	if period, ok := emaPeriod(name); ok && period > 0 {
		return KindEMA, true
	}
	return 0, false
}

func emaPeriod(name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, "ema_")
	if !ok {
		return 0, false
	}
	period, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return period, true
}

// KnownNames lists the canonical indicator names, sorted.
func KnownNames() []string {
	out := make([]string, 0, len(kindNames)+3)
	for _, n := range kindNames {
		if n != "ema" {
			out = append(out, n)
		}
	}
	out = append(out, "ema_20", "ema_50", "ema_200")
	sort.Strings(out)
	return out
}

type validator interface{ validate() error }

// New constructs the indicator configured under name, with params overriding defaults.
func New(name string, p Params) (Indicator, error) {
	kind, ok := KindOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}

	var (
		cfg  validator
		calc calculator
	)
	switch kind {
	case KindRSI:
		c := RSIConfigFrom(p)
		cfg, calc = c, &rsi{cfg: c}
	case KindMACD:
		c := MACDConfigFrom(p)
		cfg, calc = c, &macd{cfg: c}
	case KindEMA:
		c := EMAConfigFrom(p)
		if period, ok := emaPeriod(name); ok {
			if _, set := p["period"]; !set {
				c.Period = period
			}
		}
		cfg, calc = c, &ema{cfg: c}
	case KindBollinger:
		c := BollingerConfigFrom(p)
		cfg, calc = c, &bollinger{cfg: c}
	case KindStochastic:
		c := StochasticConfigFrom(p)
		cfg, calc = c, &stochastic{cfg: c}
	case KindADX:
		c := ADXConfigFrom(p)
		cfg, calc = c, &adx{cfg: c}
	case KindIchimoku:
		c := IchimokuConfigFrom(p)
		cfg, calc = c, &ichimoku{cfg: c}
	case KindATR:
		c := ATRConfigFrom(p)
		cfg, calc = c, &atr{cfg: c}
	case KindVWAP:
		c := VWAPConfigFrom(p)
		cfg, calc = c, &vwap{cfg: c}
	case KindOBV:
		c := OBVConfigFrom(p)
		cfg, calc = c, &obv{cfg: c}
	case KindMFI:
		c := MFIConfigFrom(p)
		cfg, calc = c, &mfi{cfg: c}
	case KindWilliamsR:
		c := WilliamsRConfigFrom(p)
		cfg, calc = c, &williamsR{cfg: c}
	case KindParabolicSAR:
		c := ParabolicSARConfigFrom(p)
		cfg, calc = c, &parabolicSAR{cfg: c}
	case KindCCI:
		c := CCIConfigFrom(p)
		cfg, calc = c, &cci{cfg: c}
	case KindKeltner:
		c := KeltnerConfigFrom(p)
		cfg, calc = c, &keltner{cfg: c}
	case KindVolumeProfile:
		c := VolumeProfileConfigFrom(p)
		cfg, calc = c, &volumeProfile{cfg: c}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("indicator %s: %w", name, err)
	}
	return newIndicator(name, kind, calc), nil
}
