//go:build wireinject
// +build wireinject

package di

import (
	"DivScope/pkg/config"
	"DivScope/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,

		// Repositories
		ProvideStorage,
		ProvidePublisher,
		ProvideStatsStore,
		ProvideDividendReader,
		ProvideDividendSource,
		ProvidePriceSource,

		// Domain services
		ProvideEngine,
		ProvideVolatilityEstimator,
		ProvideZScoreCalculator,
		ProvideBytesCache,

		// Use cases and pipelines
		ProvideWSHub,
		ProvideDividendProcessor,
		ProvideReclassifyPipeline,
		ProvideKafkaDividendsHandler,
		ProvideRefreshQueue,
		ProvideRefreshScheduler,

		// HTTP surface and application server
		ProvideRouter,
		ProvideApp,
	)
	return &server.App{}, nil
}
