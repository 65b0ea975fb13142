package usecase

import (
	"context"
	"sync"
	"time"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	domsvc "SignalForge/internal/domain/service"
	"SignalForge/pkg/logger"
)

// ResultSink receives every completed AnalysisResult.
type ResultSink interface {
	Name() string
	HandleResult(ctx context.Context, r *models.AnalysisResult) error
}

type sinkFunc struct {
	name string
	fn   func(ctx context.Context, r *models.AnalysisResult) error
}

// SinkFunc adapts a plain function to ResultSink.
func SinkFunc(name string, fn func(ctx context.Context, r *models.AnalysisResult) error) ResultSink {
	return sinkFunc{name: name, fn: fn}
}

func (s sinkFunc) Name() string { return s.name }

func (s sinkFunc) HandleResult(ctx context.Context, r *models.AnalysisResult) error {
	return s.fn(ctx, r)
}

// AnalysisCycle fetches a fresh snapshot of every timeframe, runs the engine
// and hands the result to the configured sinks.
type AnalysisCycle struct {
	engine      *SignalEngine
	source      domrepo.BarSource
	barsLimit   int
	timeout     time.Duration
	sinkTimeout time.Duration
	sinks       []ResultSink
	logger      *logger.Logger
	metrics     domrepo.Metrics
}

var _ domsvc.SignalAnalyzer = (*AnalysisCycle)(nil)

func NewAnalysisCycle(engine *SignalEngine, source domrepo.BarSource, barsLimit int, timeout time.Duration, l *logger.Logger, m domrepo.Metrics, sinks ...ResultSink) *AnalysisCycle {
	if l == nil {
		l = logger.Nop()
	}
	if m == nil {
		m = noopMetrics{}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnalysisCycle{
		engine:      engine,
		source:      source,
		barsLimit:   barsLimit,
		timeout:     timeout,
		sinkTimeout: 10 * time.Second,
		sinks:       sinks,
		logger:      l,
		metrics:     m,
	}
}

// AddSink registers another sink. Not safe to call while Run is in progress.
func (c *AnalysisCycle) AddSink(s ResultSink) { c.sinks = append(c.sinks, s) }

// Run performs one cycle for symbol. A failed fetch only drops its timeframe;
// the cycle fails when the context ends or the engine rejects the input.
func (c *AnalysisCycle) Run(ctx context.Context, symbol string) (*models.AnalysisResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Info("analysis cycle started", logger.String("symbol", symbol))

	series, fetchErrs := c.fetch(ctx, symbol)
	res, err := c.engine.Analyze(ctx, symbol, series)
	if err != nil {
		c.metrics.RecordError("cycle")
		c.logger.Error("analysis cycle failed", logger.String("symbol", symbol), logger.Error(err))
		return nil, err
	}
	for tf, ferr := range fetchErrs {
		if res.Errors == nil {
			res.Errors = map[string]string{}
		}
		res.Errors[string(tf)] = (&MissingTimeframeError{Timeframe: string(tf), Cause: ferr}).Error()
	}

	elapsed := time.Since(start)
	c.metrics.RecordCycle(symbol, elapsed.Seconds())
	c.metrics.RecordFinalSignal(symbol, res.FinalSignal)
	c.logger.Info("analysis cycle finished",
		logger.String("symbol", symbol),
		logger.String("direction", string(res.FinalSignal.Direction)),
		logger.Float("confidence", res.FinalSignal.Confidence),
		logger.Int("timeframes", len(res.Timeframes)),
		logger.Duration("elapsed", elapsed),
	)

	c.dispatch(ctx, res)
	return res, nil
}

func (c *AnalysisCycle) fetch(ctx context.Context, symbol string) (map[domrepo.Timeframe]*models.Series, map[domrepo.Timeframe]error) {
	n := max(c.barsLimit, c.engine.MaxLookback())

	type item struct {
		tf  domrepo.Timeframe
		s   *models.Series
		err error
	}
	tfs := c.engine.Timeframes()
	ch := make(chan item, len(tfs))
	var wg sync.WaitGroup

	for _, spec := range tfs {
		wg.Add(1)
		go func(tf domrepo.Timeframe) {
			defer wg.Done()
			t0 := time.Now()
			s, err := c.source.GetLatestBars(ctx, symbol, tf, n)
			c.metrics.RecordLatency("fetch_bars", time.Since(t0).Seconds())
			ch <- item{tf: tf, s: s, err: err}
		}(spec.Timeframe)
	}

	go func() { wg.Wait(); close(ch) }()

	series := make(map[domrepo.Timeframe]*models.Series, len(tfs))
	errs := map[domrepo.Timeframe]error{}
	for it := range ch {
		if it.err != nil {
			errs[it.tf] = it.err
			c.logger.Warn("bar fetch failed",
				logger.String("symbol", symbol),
				logger.String("timeframe", string(it.tf)),
				logger.Error(it.err),
			)
			continue
		}
		series[it.tf] = it.s
	}
	return series, errs
}

// dispatch runs sinks sequentially. They outlive the cycle deadline so a slow
// analysis does not starve persistence.
func (c *AnalysisCycle) dispatch(ctx context.Context, res *models.AnalysisResult) {
	for _, s := range c.sinks {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sinkTimeout)
		t0 := time.Now()
		err := s.HandleResult(sctx, res)
		cancel()
		c.metrics.RecordLatency("sink_"+s.Name(), time.Since(t0).Seconds())
		if err != nil {
			c.metrics.RecordError("sink_" + s.Name())
			c.logger.Error("result sink failed",
				logger.String("sink", s.Name()),
				logger.String("symbol", res.Symbol),
				logger.Error(err),
			)
		}
	}
}
