package models

import "time"

// Bar is one time-bucketed OHLCV observation.
type Bar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

// Series is an ordered, time-ascending run of bars for one symbol and timeframe.
// A Series is treated as immutable once handed to the engine.
type Series struct {
	Symbol    string
	Timeframe string
	Bars      []Bar
}

// NewSeries builds a Series over bars.
func NewSeries(symbol, timeframe string, bars []Bar) *Series {
	return &Series{Symbol: symbol, Timeframe: timeframe, Bars: bars}
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar. The series must not be empty.
func (s *Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

func (s *Series) Opens() []float64   { return s.column(func(b Bar) float64 { return b.Open }) }
func (s *Series) Highs() []float64   { return s.column(func(b Bar) float64 { return b.High }) }
func (s *Series) Lows() []float64    { return s.column(func(b Bar) float64 { return b.Low }) }
func (s *Series) Closes() []float64  { return s.column(func(b Bar) float64 { return b.Close }) }
func (s *Series) Volumes() []float64 { return s.column(func(b Bar) float64 { return b.Volume }) }

func (s *Series) column(get func(Bar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = get(b)
	}
	return out
}
