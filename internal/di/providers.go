package di

import (
	"ponydiary/internal/offline"
	"ponydiary/internal/persistence"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
)

func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

func provideCompressor() (interfaces.CompressorInterface, func(), error) {
	compressor, err := persistence.NewZstdCompressor()
	if err != nil {
		return nil, nil, err
	}
	return compressor, compressor.Close, nil
}

func provideKVStore(conf *structures.Config, fileManager *persistence.FileManager, logger providers.Logger) (interfaces.KVStoreInterface, func(), error) {
	kv, err := persistence.NewKVStore(conf, fileManager, logger)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() {
		if err := kv.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Closing journal storage: %s", err)
		}
	}, nil
}

func provideCacheStorage(conf *structures.Config, compressor interfaces.CompressorInterface) *offline.CacheStorage {
	return offline.NewCacheStorage(conf.Offline.CacheSize, compressor)
}
