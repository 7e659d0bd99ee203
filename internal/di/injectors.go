//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"ponydiary/internal"
	"ponydiary/internal/controllers"
	"ponydiary/internal/offline"
	"ponydiary/internal/persistence"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/services"
	"ponydiary/internal/structures"
)

var journalSet = wire.NewSet(
	providers.NewConfigProvider,
	provideLogger,
	providers.NewMetricsProvider,
	provideCompressor,
	persistence.NewFileManager,
	provideKVStore,
	services.NewJournalService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		journalSet,
		providers.NewInstrumentedCacheProvider,

		provideCacheStorage,
		offline.NewNetwork,
		offline.NewWorker,
		wire.Bind(new(interfaces.SnapshotterInterface), new(*persistence.FileManager)),
		wire.Bind(new(interfaces.FlusherInterface), new(*offline.Worker)),
		persistence.NewScheduler,

		controllers.NewJournalController,
		controllers.NewOfflineController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitRuntime(cfg *structures.CliFlags) (*internal.Runtime, func(), error) {

	wire.Build(
		journalSet,
		internal.NewRuntime,
	)

	return nil, nil, nil
}
