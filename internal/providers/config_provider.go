package providers

import (
	"fmt"
	"path/filepath"
	"ponydiary/internal/structures"
	"ponydiary/internal/web"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("journal.namespace", "pony_diary")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.saveInterval", 30*time.Second)
	v.SetDefault("cache.ttl", 60*time.Second)
	v.SetDefault("offline.version", "pony-diary-v3")
	v.SetDefault("offline.fallbackPath", "/")
	v.SetDefault("offline.manifest", web.DefaultManifest)
	v.SetDefault("offline.cacheSize", 64)
	v.SetDefault("offline.fetchTimeout", 10*time.Second)

	v.BindEnv("logger.level", "PONYDIARY_LOG_LEVEL")
	v.BindEnv("storage.driver", "PONYDIARY_STORAGE_DRIVER")
	v.BindEnv("storage.filePath", "PONYDIARY_STORAGE_FILE")
	v.BindEnv("storage.sqlitePath", "PONYDIARY_STORAGE_SQLITE")
	v.BindEnv("storage.saveInterval", "PONYDIARY_SAVE_INTERVAL")
	v.BindEnv("cache.enabled", "PONYDIARY_CACHE_ENABLED")
	v.BindEnv("cache.size", "PONYDIARY_CACHE_SIZE")
	v.BindEnv("offline.enabled", "PONYDIARY_OFFLINE_ENABLED")
	v.BindEnv("offline.origin", "PONYDIARY_OFFLINE_ORIGIN")
	v.BindEnv("offline.version", "PONYDIARY_OFFLINE_VERSION")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PonyDiary"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
