package models

type TrendDirection string

const (
	TrendBullish TrendDirection = "bullish"
	TrendBearish TrendDirection = "bearish"
	TrendNeutral TrendDirection = "neutral"
)

type StructureType string

const (
	StructureUptrend   StructureType = "uptrend"
	StructureDowntrend StructureType = "downtrend"
	StructureRanging   StructureType = "ranging"
)

// Trend is the dual-EMA trend regime of a timeframe.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Strength  Number         `json:"strength"`
	Slope20   Number         `json:"slope_20"`
	Slope50   Number         `json:"slope_50"`
}

// SwingPoint is a local extremum at bar Index.
type SwingPoint struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
}

type MarketStructure struct {
	Type       StructureType `json:"type"`
	SwingHighs []SwingPoint  `json:"swing_highs"`
	SwingLows  []SwingPoint  `json:"swing_lows"`
}

// KeyLevels holds recent pivots and Fibonacci retracements (0% first, 100% last).
type KeyLevels struct {
	Support    []float64 `json:"support"`
	Resistance []float64 `json:"resistance"`
	Fibonacci  []float64 `json:"fibonacci"`
}

type VolumeAnalysis struct {
	CurrentVolume    float64 `json:"current_volume"`
	VolumeMA         Number  `json:"volume_ma"`
	RelativeVolume   Number  `json:"relative_volume"`
	VolumePriceTrend Number  `json:"volume_price_trend"`
	VolumeSpike      bool    `json:"volume_spike"`
}

// Structure is the descriptive context of one timeframe. It never gates the final signal.
type Structure struct {
	Trend     Trend           `json:"trend"`
	Structure MarketStructure `json:"structure"`
	Levels    KeyLevels       `json:"levels"`
	Volume    VolumeAnalysis  `json:"volume"`
}
