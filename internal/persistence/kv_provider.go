package persistence

import (
	"fmt"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
)

func NewKVStore(conf *structures.Config, fileManager *FileManager, logger providers.Logger) (interfaces.KVStoreInterface, error) {
	switch conf.Storage.Driver {
	case "sqlite":
		logger.Infof(providers.TypeApp, "Using sqlite journal storage at %s", conf.Storage.SqlitePath)
		kv, err := NewSQLiteKV(conf.Storage.SqlitePath)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case "file", "":
		logger.Infof(providers.TypeApp, "Using file journal storage at %s", conf.Storage.FilePath)
		kv, err := NewFileKV(conf.Storage.FilePath, fileManager, logger)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
