//go:build wireinject
// +build wireinject

package di

import (
	"PDMScan/pkg/config"
	"PDMScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideEngineConfig,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideBarStore,
		ProvideBarProvider,
		ProvideSignalSink,
		ProvideSignalHistory,

		// Engine
		ProvideScanner,
		ProvideBacktestRunner,

		// Use cases
		ProvideScanUseCase,
		ProvideEvaluateUseCase,
		ProvideBacktestUseCase,
		ProvideScanScheduler,
		ProvideTickCollector,

		// HTTP
		ProvideCache,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
