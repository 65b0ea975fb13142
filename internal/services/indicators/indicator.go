package indicators

import (
	"fmt"
	"math"
	"runtime/debug"

	"SignalForge/internal/domain/models"
)

// Kind enumerates the closed set of indicator variants.
type Kind int

const (
	KindRSI Kind = iota
	KindMACD
	KindEMA
	KindBollinger
	KindStochastic
	KindADX
	KindIchimoku
	KindATR
	KindVWAP
	KindOBV
	KindMFI
	KindWilliamsR
	KindParabolicSAR
	KindCCI
	KindKeltner
	KindVolumeProfile
)

var kindNames = [...]string{
	KindRSI:           "rsi",
	KindMACD:          "macd",
	KindEMA:           "ema",
	KindBollinger:     "bollinger_bands",
	KindStochastic:    "stochastic",
	KindADX:           "adx",
	KindIchimoku:      "ichimoku",
	KindATR:           "atr",
	KindVWAP:          "vwap",
	KindOBV:           "obv",
	KindMFI:           "mfi",
	KindWilliamsR:     "williams_r",
	KindParabolicSAR:  "parabolic_sar",
	KindCCI:           "cci",
	KindKeltner:       "keltner_channels",
	KindVolumeProfile: "volume_profile",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Indicator is the uniform contract every variant satisfies.
type Indicator interface {
	Name() string
	Kind() Kind
	// MinBars is the series length at which the latest value can be defined.
	MinBars() int
	Validate(s *models.Series) error
	// Compute returns the value series and classification. Shorter series yield
	// undefined values and NEUTRAL rather than an error.
	Compute(s *models.Series) (*models.IndicatorResult, error)
	// Classify never fails: invalid input and internal faults collapse to NEUTRAL.
	Classify(s *models.Series) models.Direction
}

type calculator interface {
	minBars() int
	calculate(s *models.Series) output
	classify(s *models.Series, o output) models.Direction
}

type output struct {
	values map[string]float64
	series map[string][]float64
	meta   map[string]any
}

func newOutput() output {
	return output{values: map[string]float64{}, series: map[string][]float64{}}
}

// add stores a full series and its latest value under key.
func (o output) add(key string, x []float64) output {
	o.series[key] = x
	o.values[key] = last(x)
	return o
}

func (o output) get(key string) []float64 { return o.series[key] }

func (o output) value(key string) float64 {
	v, ok := o.values[key]
	if !ok {
		return math.NaN()
	}
	return v
}

type indicator struct {
	name string
	kind Kind
	calc calculator
}

func newIndicator(name string, kind Kind, calc calculator) *indicator {
	return &indicator{name: name, kind: kind, calc: calc}
}

func (i *indicator) Name() string  { return i.name }
func (i *indicator) Kind() Kind    { return i.kind }
func (i *indicator) MinBars() int  { return i.calc.minBars() }
func (i *indicator) String() string { return i.name }

func (i *indicator) Validate(s *models.Series) error {
	if err := ValidateSeries(s); err != nil {
		if ie, ok := err.(*InvalidInputError); ok {
			ie.Indicator = i.name
		}
		return err
	}
	return nil
}

func (i *indicator) Compute(s *models.Series) (res *models.IndicatorResult, err error) {
	if err := i.Validate(s); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ComputeError{Indicator: i.name, Cause: fmt.Errorf("panic: %v", r), Stack: string(debug.Stack())}
		}
	}()

	o := i.calc.calculate(s)
	sig := i.calc.classify(s, o)
	// below the lookback the payload is reported but never votes
	if !sig.Valid() || s.Len() < i.calc.minBars() {
		sig = models.Neutral
	}

	values := make(map[string]models.Number, len(o.values))
	for k, v := range o.values {
		values[k] = models.Number(v)
	}
	return &models.IndicatorResult{
		Name:   i.name,
		Values: values,
		Series: o.series,
		Meta:   o.meta,
		Signal: sig,
	}, nil
}

func (i *indicator) Classify(s *models.Series) models.Direction {
	res, err := i.Compute(s)
	if err != nil {
		return models.Neutral
	}
	return res.Signal
}

// Params carries the numeric tunables of one configured indicator.
type Params map[string]float64

// Int returns p[key] truncated to int, or def when absent.
func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func positive(field string, v int) error {
	if v < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", field, v)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
