//go:build wireinject
// +build wireinject

package di

import (
	"FameFeed/pkg/config"
	"FameFeed/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideAuditBus,

		// Stores
		ProvideStoreRegistry,

		// Use cases
		ProvideSeriesReader,
		ProvideComparator,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
