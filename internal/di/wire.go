//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SignalForge/pkg/config"
	"SignalForge/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideResultCache,

		// Repositories
		ProvideBarSource,
		ProvideSignalStore,

		// Engine and use cases
		ProvideStructureAnalyzer,
		ProvideSignalEngine,
		ProvideHub,
		ProvideAnalysisCycle,
		ProvideReportSink,

		// HTTP
		ProvideLimiter,
		ProvideSignalsHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
