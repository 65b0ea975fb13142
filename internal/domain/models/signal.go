package models

import (
	"math"
	"time"
)

// Direction is the categorical output of an indicator, a timeframe or the engine.
type Direction string

const (
	Long    Direction = "LONG"
	Short   Direction = "SHORT"
	Neutral Direction = "NEUTRAL"
)

// Valid reports whether d is one of the three known directions.
func (d Direction) Valid() bool {
	switch d {
	case Long, Short, Neutral:
		return true
	default:
		return false
	}
}

// IndicatorResult is the output of one indicator over one series.
// Values holds the latest scalar(s), Series the full value series aligned to the bar index.
type IndicatorResult struct {
	Name   string               `json:"name"`
	Values map[string]Number    `json:"values"`
	Series map[string][]float64 `json:"-"`
	Meta   map[string]any       `json:"meta,omitempty"`
	Signal Direction            `json:"signal"`
}

// Value returns the latest value stored under key, or NaN.
func (r *IndicatorResult) Value(key string) float64 {
	if r == nil {
		return math.NaN()
	}
	v, ok := r.Values[key]
	if !ok {
		return math.NaN()
	}
	return float64(v)
}

// WeightedSignal is the majority vote of one timeframe's indicators.
type WeightedSignal struct {
	Direction       Direction `json:"direction"`
	Confidence      float64   `json:"confidence"`
	LongCount       int       `json:"long_count"`
	ShortCount      int       `json:"short_count"`
	TotalIndicators int       `json:"total_indicators"`
}

// FinalSignal is the terminal output of one analysis cycle.
type FinalSignal struct {
	Direction          Direction `json:"direction"`
	Confidence         float64   `json:"confidence"`
	WeightedLongScore  float64   `json:"total_long_signals"`
	WeightedShortScore float64   `json:"total_short_signals"`
	TotalSignal        float64   `json:"total_signals"`
	Threshold          float64   `json:"threshold"`
	LongPercentage     float64   `json:"long_percentage"`
	ShortPercentage    float64   `json:"short_percentage"`
}

// SignalRecord is the persisted summary of one cycle's final signal.
type SignalRecord struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Timestamp  time.Time `json:"timestamp"`
	Price      Number    `json:"price"`
	Direction  Direction `json:"direction"`
	Confidence float64   `json:"confidence"`
	LongScore  float64   `json:"long_score"`
	ShortScore float64   `json:"short_score"`
	Threshold  float64   `json:"threshold"`
}
