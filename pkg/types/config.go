package types

import (
	"errors"
	"time"
)

// Config is the decoded config.yaml of the admindesk CLI.
type Config struct {
	Storage  StorageConfig  `json:"storage" yaml:"storage" mapstructure:"storage"`
	Latency  LatencyConfig  `json:"latency" yaml:"latency" mapstructure:"latency"`
	Remote   RemoteConfig   `json:"remote" yaml:"remote" mapstructure:"remote"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Fixtures FixturesConfig `json:"fixtures" yaml:"fixtures" mapstructure:"fixtures"`
}

// StorageConfig selects the key-value backend that persists the record sets.
type StorageConfig struct {
	Backend     string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir     string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	RedisAddr   string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn"`
}

// LatencyConfig controls the artificial per-operation delay of the store.
// Scale multiplies the built-in delays; 0 disables them.
type LatencyConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Scale   float64 `json:"scale" yaml:"scale" mapstructure:"scale"`
}

// RemoteConfig points the facade at a real product endpoint. An empty
// BaseURL means products are always served by the store.
type RemoteConfig struct {
	BaseURL string        `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig is the listen address of the product REST server.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// FixturesConfig selects where bundled seed files come from. Dir wins over
// BaseURL; with neither set the embedded fixtures are used.
type FixturesConfig struct {
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// Supported backend names.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrDataDirRequired     = errors.New("data dir is required for file and sqlite backends")
	ErrRedisAddrRequired   = errors.New("redis address is required for the redis backend")
	ErrPostgresDSNRequired = errors.New("postgres DSN is required for the postgres backend")
	ErrLatencyNegative     = errors.New("latency scale must not be negative")
	ErrTimeoutNegative     = errors.New("remote timeout must not be negative")
)

var knownBackends = map[string]bool{
	BackendFile:     true,
	BackendSQLite:   true,
	BackendRedis:    true,
	BackendPostgres: true,
	BackendMemory:   true,
}

// Validate checks that the StorageConfig is usable. It returns a sentinel
// error from this package on failure.
func (c StorageConfig) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendFile, BackendSQLite:
		if c.DataDir == "" {
			return ErrDataDirRequired
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return ErrRedisAddrRequired
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return ErrPostgresDSNRequired
		}
	}
	return nil
}

// Validate checks every section of the Config.
func (c Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Latency.Scale < 0 {
		return ErrLatencyNegative
	}
	if c.Remote.Timeout < 0 {
		return ErrTimeoutNegative
	}
	return nil
}
