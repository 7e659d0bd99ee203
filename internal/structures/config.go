package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type JournalConfig struct {
	Namespace string `yaml:"namespace" validate:"required"`
}

type StorageConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,sqlite"`
	FilePath     string        `yaml:"filePath" validate:"unixPath"`
	SqlitePath   string        `yaml:"sqlitePath" validate:"unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// OfflineConfig describes the asset cache generation served in front of Origin.
type OfflineConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Version         string        `yaml:"version"`
	Origin          string        `yaml:"origin"`
	Manifest        []string      `yaml:"manifest"`
	FallbackPath    string        `yaml:"fallbackPath"`
	CacheSize       int           `yaml:"cacheSize"`
	SnapshotPath    string        `yaml:"snapshotPath"`
	FetchTimeout    time.Duration `yaml:"fetchTimeout"`
	DeferActivation bool          `yaml:"deferActivation"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Journal   JournalConfig `yaml:"journal"`
	Storage   StorageConfig `yaml:"storage"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Offline   OfflineConfig `yaml:"offline"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}
