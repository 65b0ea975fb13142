package di

import (
	"context"
	"fmt"
	"time"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
	"SignalForge/internal/handler/api"
	"SignalForge/internal/handler/ws"
	"SignalForge/internal/repository"
	"SignalForge/internal/service/cache"
	"SignalForge/internal/service/ratelimit"
	"SignalForge/internal/services/structure"
	"SignalForge/internal/usecase"
	pkgch "SignalForge/pkg/clickhouse"
	"SignalForge/pkg/config"
	xhttp "SignalForge/pkg/http"
	pkgkafka "SignalForge/pkg/kafka"
	"SignalForge/pkg/logger"
	"SignalForge/pkg/metrics"
	"SignalForge/pkg/server"
)

const historyCapacity = 500

// ProvideLogger builds the application logger from the logger section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideClickHouseClient connects and creates the tables. It returns nil
// when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config, l *logger.Logger) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	db := cfg.ClickHouse.Database
	stmts := []string{"CREATE DATABASE IF NOT EXISTS " + db}
	stmts = append(stmts, repository.BarsSchema(db, cfg.Bars.Table)...)
	stmts = append(stmts, repository.SignalsSchema(db, cfg.ClickHouse.SignalsTable)...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse connected", logger.String("host", cfg.ClickHouse.Host), logger.String("database", db))

	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", logger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka producer ready", logger.Strings("brokers", cfg.Kafka.Brokers), logger.String("topic", cfg.Kafka.Topic))

	cleanup := func() {
		if err := producer.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}
	return producer, cleanup, nil
}

// ProvideBarSource selects the bar backend named by bars.source.
func ProvideBarSource(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) (domrepo.BarSource, error) {
	switch cfg.Bars.Source {
	case "clickhouse":
		if ch == nil {
			return nil, &config.ConfigurationError{Field: "bars.source", Reason: "clickhouse source requires clickhouse.enabled"}
		}
		return repository.NewCHBarStore(ch, cfg.Bars.Table, l), nil
	default:
		return repository.NewFileBarSource(cfg.Bars.Dir), nil
	}
}

// ProvideSignalStore persists history to ClickHouse, or keeps it in memory.
func ProvideSignalStore(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) domrepo.SignalStore {
	if ch == nil {
		return repository.NewMemorySignalStore(historyCapacity)
	}
	return repository.NewCHSignalStore(ch, cfg.ClickHouse.SignalsTable, l)
}

// ProvideResultCache picks the memory or Redis backend.
func ProvideResultCache(cfg *config.Config, l *logger.Logger) (*cache.ResultCache, func(), error) {
	if cfg.Cache.Backend != "redis" {
		return cache.NewResultCache(cache.NewTTLCache(), cfg.Cache.TTL), func() {}, nil
	}
	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", logger.Error(err))
		}
	}
	return cache.NewResultCache(rc, cfg.Cache.TTL), cleanup, nil
}

func ProvideStructureAnalyzer() *structure.Analyzer {
	return structure.NewAnalyzer(structure.DefaultConfig())
}

// ProvideSignalEngine validates the strategy settings and builds every indicator.
func ProvideSignalEngine(cfg *config.Config, analyzer *structure.Analyzer, l *logger.Logger, m *metrics.Recorder) (*usecase.SignalEngine, error) {
	ec, err := usecase.EngineConfigFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return usecase.NewSignalEngine(ec, analyzer, l, m)
}

func ProvideHub(l *logger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideAnalysisCycle attaches every configured result sink.
func ProvideAnalysisCycle(
	cfg *config.Config,
	engine *usecase.SignalEngine,
	source domrepo.BarSource,
	l *logger.Logger,
	m *metrics.Recorder,
	results *cache.ResultCache,
	history domrepo.SignalStore,
	producer *pkgkafka.Producer,
	hub *ws.Hub,
) *usecase.AnalysisCycle {
	sinks := []usecase.ResultSink{
		usecase.SinkFunc("cache", results.Put),
		usecase.SinkFunc("history", history.Save),
	}
	if producer != nil {
		pub := repository.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
		sinks = append(sinks, usecase.SinkFunc("kafka", pub.Publish))
	}
	sinks = append(sinks, hub)
	return usecase.NewAnalysisCycle(engine, source, cfg.Bot.BarsLimit, cfg.Bot.CycleTimeout, l, m, sinks...)
}

// ProvideReportSink logs the text report of every cycle at info level.
func ProvideReportSink(cycle *usecase.AnalysisCycle, l *logger.Logger) usecase.ResultSink {
	sink := usecase.SinkFunc("report", func(_ context.Context, r *models.AnalysisResult) error {
		l.Info("signal report", logger.String("symbol", r.Symbol), logger.String("report", usecase.RenderReport(r)))
		return nil
	})
	cycle.AddSink(sink)
	return sink
}

// ProvideLimiter allows bursts of 3 on-demand analyses per symbol, refilling one every 20s.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New(3, 0.05)
}

func ProvideSignalsHandler(
	cfg *config.Config,
	l *logger.Logger,
	cycle *usecase.AnalysisCycle,
	results *cache.ResultCache,
	history domrepo.SignalStore,
	limiter *ratelimit.Limiter,
	m *metrics.Recorder,
) *api.SignalsEchoHandler {
	return api.NewSignalsEchoHandler(l, cycle, results, history, limiter, m, cfg.Bot.Symbol)
}

func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.SignalsEchoHandler, hub *ws.Hub) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, []xhttp.Handler{h, hub},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server. The report sink is taken so
// that it is attached before the first cycle runs.
func ProvideApp(cfg *config.Config, cycle *usecase.AnalysisCycle, _ usecase.ResultSink, srv *xhttp.Server, l *logger.Logger) *server.App {
	return server.New(cycle, srv, l, cfg.Bot.Symbol, cfg.Bot.Interval)
}
