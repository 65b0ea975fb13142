package models

import "time"

// TimeframeAnalysis is the full breakdown of one timeframe in a cycle.
type TimeframeAnalysis struct {
	Timeframe    string  `json:"timeframe"`
	Priority     int     `json:"priority"`
	Weight       float64 `json:"weight"`
	Bars         int     `json:"bars"`
	CurrentPrice float64 `json:"current_price"`
	Structure
	IndicatorSignals map[string]Direction `json:"indicator_signals"`
	Indicators       []IndicatorResult    `json:"indicators,omitempty"`
	WeightedSignal   WeightedSignal       `json:"weighted_signal"`
}

// AnalysisResult is everything one cycle produced for a symbol.
type AnalysisResult struct {
	ID           string              `json:"id"`
	Symbol       string              `json:"symbol"`
	Timestamp    time.Time           `json:"timestamp"`
	CurrentPrice Number              `json:"current_price"`
	Timeframes   []TimeframeAnalysis `json:"timeframe_signals"`
	FinalSignal  FinalSignal         `json:"final_signal"`
	Errors       map[string]string   `json:"errors,omitempty"`
}

// Timeframe returns the breakdown for name, if it was analyzed.
func (r *AnalysisResult) Timeframe(name string) (*TimeframeAnalysis, bool) {
	for i := range r.Timeframes {
		if r.Timeframes[i].Timeframe == name {
			return &r.Timeframes[i], true
		}
	}
	return nil, false
}

// Record flattens the result into its persisted summary.
func (r *AnalysisResult) Record() SignalRecord {
	return SignalRecord{
		ID:         r.ID,
		Symbol:     r.Symbol,
		Timestamp:  r.Timestamp,
		Price:      r.CurrentPrice,
		Direction:  r.FinalSignal.Direction,
		Confidence: r.FinalSignal.Confidence,
		LongScore:  r.FinalSignal.WeightedLongScore,
		ShortScore: r.FinalSignal.WeightedShortScore,
		Threshold:  r.FinalSignal.Threshold,
	}
}
