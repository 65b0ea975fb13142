package indicators

import "SignalForge/internal/domain/models"

type ParabolicSARConfig struct {
	Start     float64
	Increment float64
	Max       float64
}

func DefaultParabolicSARConfig() ParabolicSARConfig {
	return ParabolicSARConfig{Start: 0.02, Increment: 0.02, Max: 0.2}
}

func ParabolicSARConfigFrom(p Params) ParabolicSARConfig {
	d := DefaultParabolicSARConfig()
	return ParabolicSARConfig{
		Start:     p.Float("start", d.Start),
		Increment: p.Float("increment", d.Increment),
		Max:       p.Float("max", d.Max),
	}
}

func (c ParabolicSARConfig) validate() error { return nil }

// NewParabolicSAR is the stop-and-reverse trail. Trend direction at each bar comes
// from the close delta; the extreme point and acceleration are not reset on reversal.
func NewParabolicSAR(cfg ParabolicSARConfig) Indicator {
	return newIndicator("parabolic_sar", KindParabolicSAR, &parabolicSAR{cfg: cfg})
}

type parabolicSAR struct{ cfg ParabolicSARConfig }

func (p *parabolicSAR) minBars() int { return 3 }

// sarState is carried from one bar to the next.
type sarState struct {
	sar   float64
	ep    float64
	accel float64
}

// step advances the state over bar i. It must run in bar order.
func (p *parabolicSAR) step(prev sarState, i int, highs, lows, closes []float64) sarState {
	rising := closes[i] > closes[i-1]
	if i == 1 {
		next := sarState{sar: prev.sar, ep: lows[i], accel: p.cfg.Start}
		if rising {
			next.ep = highs[i]
		}
		return next
	}

	next := sarState{sar: prev.sar + prev.accel*(prev.ep-prev.sar), accel: prev.accel}
	var extended bool
	if rising {
		next.ep = max(prev.ep, highs[i])
		extended = next.ep > prev.ep
	} else {
		next.ep = min(prev.ep, lows[i])
		extended = next.ep < prev.ep
	}
	if extended {
		next.accel = min(prev.accel+p.cfg.Increment, p.cfg.Max)
	}
	return next
}

func (p *parabolicSAR) calculate(s *models.Series) output {
	highs, lows, closes := s.Highs(), s.Lows(), s.Closes()
	n := len(closes)
	sar := make([]float64, n)
	ep := make([]float64, n)
	accel := make([]float64, n)

	state := sarState{sar: lows[0], ep: highs[0], accel: p.cfg.Start}
	sar[0], ep[0], accel[0] = state.sar, state.ep, state.accel
	for i := 1; i < n; i++ {
		state = p.step(state, i, highs, lows, closes)
		sar[i], ep[i], accel[i] = state.sar, state.ep, state.accel
	}
	return newOutput().add("sar", sar).add("extreme_point", ep).add("acceleration", accel)
}

func (p *parabolicSAR) classify(s *models.Series, o output) models.Direction {
	return compare(s.Last().Close, o.value("sar"))
}
