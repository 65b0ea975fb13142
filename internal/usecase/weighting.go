package usecase

import (
	"sort"

	"SignalForge/internal/domain/models"
)

const (
	// MajorityPercent is the share a direction must exceed within one timeframe.
	MajorityPercent = 60.0
	// DominanceRatio is how far the winning weighted score must exceed the other.
	DominanceRatio = 1.2
)

// WeightSignals tallies one timeframe's indicator signals into a majority vote.
func WeightSignals(signals []models.Direction) models.WeightedSignal {
	ws := models.WeightedSignal{Direction: models.Neutral, TotalIndicators: len(signals)}
	for _, s := range signals {
		switch s {
		case models.Long:
			ws.LongCount++
		case models.Short:
			ws.ShortCount++
		}
	}
	if ws.TotalIndicators == 0 {
		return ws
	}

	total := float64(ws.TotalIndicators)
	longPct := float64(ws.LongCount) / total * 100
	shortPct := float64(ws.ShortCount) / total * 100
	switch {
	case longPct > MajorityPercent:
		ws.Direction, ws.Confidence = models.Long, longPct
	case shortPct > MajorityPercent:
		ws.Direction, ws.Confidence = models.Short, shortPct
	default:
		ws.Confidence = max(longPct, shortPct)
	}
	return ws
}

// Contribution is one analyzed timeframe's input to the final vote.
type Contribution struct {
	Timeframe string
	Priority  int
	Weight    float64
	Signal    models.WeightedSignal
}

// AggregateFinal combines timeframe votes in priority order. A timeframe adds
// weight times its raw winning count; NEUTRAL timeframes add nothing.
func AggregateFinal(contribs []Contribution, threshold float64) models.FinalSignal {
	ordered := append([]Contribution(nil), contribs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	final := models.FinalSignal{Direction: models.Neutral, Threshold: threshold}
	for _, c := range ordered {
		switch c.Signal.Direction {
		case models.Long:
			final.WeightedLongScore += c.Weight * float64(c.Signal.LongCount)
		case models.Short:
			final.WeightedShortScore += c.Weight * float64(c.Signal.ShortCount)
		}
	}

	total := final.WeightedLongScore + final.WeightedShortScore
	final.TotalSignal = total
	if total > 0 {
		final.LongPercentage = final.WeightedLongScore / total * 100
		final.ShortPercentage = final.WeightedShortScore / total * 100
	}
	if total < threshold {
		return final
	}

	switch {
	case final.WeightedLongScore > final.WeightedShortScore*DominanceRatio:
		final.Direction, final.Confidence = models.Long, final.LongPercentage
	case final.WeightedShortScore > final.WeightedLongScore*DominanceRatio:
		final.Direction, final.Confidence = models.Short, final.ShortPercentage
	}
	return final
}
