package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	domsvc "SignalForge/internal/domain/service"
	"SignalForge/internal/services/indicators"
	"SignalForge/pkg/config"
	"SignalForge/pkg/logger"
)

// TimeframeSpec describes one analyzed timeframe.
type TimeframeSpec struct {
	Timeframe domrepo.Timeframe
	Priority  int
	Weight    float64
}

// IndicatorSpec enables one named indicator on a set of timeframes.
type IndicatorSpec struct {
	Name       string
	Enabled    bool
	Timeframes []domrepo.Timeframe
	Params     indicators.Params
}

type EngineConfig struct {
	Timeframes []TimeframeSpec
	Indicators []IndicatorSpec
	Threshold  float64
}

// EngineConfigFromConfig maps the loaded strategy settings.
func EngineConfigFromConfig(cfg *config.Config) (EngineConfig, error) {
	ec := EngineConfig{Threshold: cfg.SignalThreshold}
	for _, tf := range cfg.SortedTimeframes() {
		name, ok := domrepo.NormalizeTimeframe(tf.Name)
		if !ok {
			return EngineConfig{}, &config.ConfigurationError{Field: "timeframes." + tf.Name, Reason: "unknown timeframe"}
		}
		ec.Timeframes = append(ec.Timeframes, TimeframeSpec{Timeframe: name, Priority: tf.Priority, Weight: tf.Weight})
	}
	for _, name := range cfg.IndicatorNames() {
		ic := cfg.Indicators[name]
		spec := IndicatorSpec{Name: name, Enabled: ic.Enabled, Params: indicators.Params(ic.Params)}
		for _, raw := range ic.Timeframes {
			tf, ok := domrepo.NormalizeTimeframe(raw)
			if !ok {
				return EngineConfig{}, &config.ConfigurationError{Field: "indicators." + name + ".timeframes", Reason: fmt.Sprintf("unknown timeframe %q", raw)}
			}
			spec.Timeframes = append(spec.Timeframes, tf)
		}
		ec.Indicators = append(ec.Indicators, spec)
	}
	return ec, nil
}

// SignalEngine turns per-timeframe bar series into a final signal. It holds no
// state between calls; every result is freshly allocated.
type SignalEngine struct {
	timeframes []TimeframeSpec
	indicators map[domrepo.Timeframe][]indicators.Indicator
	structure  domsvc.StructureAnalyzer
	threshold  float64
	logger     *logger.Logger
	metrics    domrepo.Metrics
	now        func() time.Time
	newID      func() string
}

// NewSignalEngine builds every configured indicator up front. Unknown names,
// bad parameters or timeframes are returned as *config.ConfigurationError.
func NewSignalEngine(cfg EngineConfig, analyzer domsvc.StructureAnalyzer, l *logger.Logger, m domrepo.Metrics) (*SignalEngine, error) {
	if len(cfg.Timeframes) == 0 {
		return nil, &config.ConfigurationError{Field: "timeframes", Reason: "at least one timeframe required"}
	}
	if cfg.Threshold < 0 {
		return nil, &config.ConfigurationError{Field: "signal_threshold", Reason: "must be >= 0"}
	}
	if l == nil {
		l = logger.Nop()
	}
	if m == nil {
		m = noopMetrics{}
	}

	e := &SignalEngine{
		indicators: make(map[domrepo.Timeframe][]indicators.Indicator),
		structure:  analyzer,
		threshold:  cfg.Threshold,
		logger:     l,
		metrics:    m,
		now:        time.Now,
		newID:      uuid.NewString,
	}

	seen := map[domrepo.Timeframe]bool{}
	for _, tf := range cfg.Timeframes {
		switch {
		case !domrepo.IsValidTimeframe(tf.Timeframe):
			return nil, &config.ConfigurationError{Field: "timeframes." + string(tf.Timeframe), Reason: "unknown timeframe"}
		case seen[tf.Timeframe]:
			return nil, &config.ConfigurationError{Field: "timeframes." + string(tf.Timeframe), Reason: "duplicate timeframe"}
		case tf.Weight <= 0:
			return nil, &config.ConfigurationError{Field: "timeframes." + string(tf.Timeframe), Reason: "weight must be > 0"}
		}
		seen[tf.Timeframe] = true
		e.timeframes = append(e.timeframes, tf)
	}
	sort.SliceStable(e.timeframes, func(i, j int) bool { return e.timeframes[i].Priority < e.timeframes[j].Priority })

	specs := append([]IndicatorSpec(nil), cfg.Indicators...)
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	for _, spec := range specs {
		if !spec.Enabled {
			continue
		}
		for _, tf := range spec.Timeframes {
			if !domrepo.IsValidTimeframe(tf) {
				return nil, &config.ConfigurationError{Field: "indicators." + spec.Name, Reason: fmt.Sprintf("unknown timeframe %q", tf)}
			}
			// each timeframe gets its own instance
			ind, err := indicators.New(spec.Name, spec.Params)
			if err != nil {
				return nil, &config.ConfigurationError{Field: "indicators." + spec.Name, Reason: err.Error()}
			}
			e.indicators[tf] = append(e.indicators[tf], ind)
		}
	}
	return e, nil
}

func (e *SignalEngine) Timeframes() []TimeframeSpec {
	return append([]TimeframeSpec(nil), e.timeframes...)
}

func (e *SignalEngine) Threshold() float64 { return e.threshold }

// Indicators returns the indicators bound to tf, in evaluation order.
func (e *SignalEngine) Indicators(tf domrepo.Timeframe) []indicators.Indicator {
	return append([]indicators.Indicator(nil), e.indicators[tf]...)
}

// MaxLookback is the largest MinBars over every bound indicator.
func (e *SignalEngine) MaxLookback() int {
	n := 0
	for _, inds := range e.indicators {
		for _, ind := range inds {
			n = max(n, ind.MinBars())
		}
	}
	return n
}

// AnalyzeTimeframe evaluates every indicator bound to spec and describes the
// series structure. Indicator failures degrade to NEUTRAL; only an invalid
// series or a cancelled context return an error.
func (e *SignalEngine) AnalyzeTimeframe(ctx context.Context, spec TimeframeSpec, s *models.Series) (models.TimeframeAnalysis, error) {
	if err := indicators.ValidateSeries(s); err != nil {
		return models.TimeframeAnalysis{}, err
	}

	tf := string(spec.Timeframe)
	inds := e.indicators[spec.Timeframe]
	ta := models.TimeframeAnalysis{
		Timeframe:        tf,
		Priority:         spec.Priority,
		Weight:           spec.Weight,
		Bars:             s.Len(),
		CurrentPrice:     s.Last().Close,
		IndicatorSignals: make(map[string]models.Direction, len(inds)),
		Indicators:       make([]models.IndicatorResult, 0, len(inds)),
	}

	signals := make([]models.Direction, 0, len(inds))
	for _, ind := range inds {
		if err := ctx.Err(); err != nil {
			return models.TimeframeAnalysis{}, err
		}
		sig := models.Neutral
		res, err := ind.Compute(s)
		if err != nil {
			e.logger.Warn("indicator failed, using NEUTRAL",
				logger.String("timeframe", tf),
				logger.String("indicator", ind.Name()),
				logger.Error(err),
			)
			e.metrics.RecordIndicatorFailure(tf, ind.Name())
		} else {
			sig = res.Signal
			ta.Indicators = append(ta.Indicators, *res)
		}
		if s.Len() < ind.MinBars() {
			e.logger.Debug("series shorter than indicator lookback",
				logger.String("timeframe", tf),
				logger.String("indicator", ind.Name()),
				logger.Int("bars", s.Len()),
				logger.Int("min_bars", ind.MinBars()),
			)
		}
		ta.IndicatorSignals[ind.Name()] = sig
		signals = append(signals, sig)
	}

	if e.structure != nil {
		ta.Structure = e.structure.Analyze(s)
	}
	ta.WeightedSignal = WeightSignals(signals)
	return ta, nil
}

// Analyze runs every configured timeframe present in series concurrently and
// aggregates the results. Timeframes without usable data are recorded in
// Errors and left out of the vote. A cancelled context aborts the whole call.
func (e *SignalEngine) Analyze(ctx context.Context, symbol string, series map[domrepo.Timeframe]*models.Series) (*models.AnalysisResult, error) {
	res := &models.AnalysisResult{
		ID:           e.newID(),
		Symbol:       symbol,
		Timestamp:    e.now().UTC(),
		CurrentPrice: models.Undefined(),
		Errors:       map[string]string{},
	}

	type item struct {
		idx int
		ta  models.TimeframeAnalysis
		err error
	}
	ch := make(chan item, len(e.timeframes))
	var wg sync.WaitGroup

	for i, spec := range e.timeframes {
		s := series[spec.Timeframe]
		if s.Len() == 0 {
			res.Errors[string(spec.Timeframe)] = (&MissingTimeframeError{Timeframe: string(spec.Timeframe)}).Error()
			e.metrics.RecordMissingTimeframe(string(spec.Timeframe))
			continue
		}
		wg.Add(1)
		go func(i int, spec TimeframeSpec, s *models.Series) {
			defer wg.Done()
			ta, err := e.AnalyzeTimeframe(ctx, spec, s)
			ch <- item{idx: i, ta: ta, err: err}
		}(i, spec, s)
	}

	go func() { wg.Wait(); close(ch) }()

	analyzed := make([]*models.TimeframeAnalysis, len(e.timeframes))
	for it := range ch {
		tf := string(e.timeframes[it.idx].Timeframe)
		if it.err != nil {
			if ctx.Err() != nil {
				continue
			}
			res.Errors[tf] = (&MissingTimeframeError{Timeframe: tf, Cause: it.err}).Error()
			e.metrics.RecordMissingTimeframe(tf)
			e.logger.Warn("timeframe excluded", logger.String("timeframe", tf), logger.Error(it.err))
			continue
		}
		ta := it.ta
		analyzed[it.idx] = &ta
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contribs := make([]Contribution, 0, len(analyzed))
	for _, ta := range analyzed {
		if ta == nil {
			continue
		}
		res.Timeframes = append(res.Timeframes, *ta)
		contribs = append(contribs, Contribution{
			Timeframe: ta.Timeframe,
			Priority:  ta.Priority,
			Weight:    ta.Weight,
			Signal:    ta.WeightedSignal,
		})
	}
	res.FinalSignal = AggregateFinal(contribs, e.threshold)

	for _, tf := range domrepo.AllTimeframes() {
		if ta, ok := res.Timeframe(string(tf)); ok {
			res.CurrentPrice = models.Number(ta.CurrentPrice)
			break
		}
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordCycle(string, float64)                 {}
func (noopMetrics) RecordFinalSignal(string, models.FinalSignal) {}
func (noopMetrics) RecordIndicatorFailure(string, string)       {}
func (noopMetrics) RecordMissingTimeframe(string)               {}
func (noopMetrics) RecordError(string)                          {}
func (noopMetrics) RecordLatency(string, float64)               {}
