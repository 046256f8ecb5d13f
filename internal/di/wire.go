//go:build wireinject
// +build wireinject

package di

import (
	"RiskPulse/pkg/config"
	"RiskPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisClient,
		ProvideCache,
		ProvideBarArchive,
		ProvideSignalPublisher,
		ProvideKafkaConsumer,
		ProvideAccountDB,

		// Domain services
		ProvideMarketDataSource,
		ProvideModelStore,
		ProvideTextGenerator,

		// Use cases
		ProvideAnalysisUseCase,
		ProvideTrainUseCase,
		ProvideQueue,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
