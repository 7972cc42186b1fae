package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/admindesk/internal/api"
	"github.com/mesh-intelligence/admindesk/internal/paths"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// envPrefix scopes environment overrides: storage.backend is read
	// from ADMINDESK_STORAGE_BACKEND.
	envPrefix = "ADMINDESK"

	cfgKeyBackend         = "storage.backend"
	cfgKeyDataDir         = "storage.data_dir"
	cfgKeyRedisAddr       = "storage.redis_addr"
	cfgKeyPostgresDSN     = "storage.postgres_dsn"
	cfgKeyLatencyEnabled  = "latency.enabled"
	cfgKeyLatencyScale    = "latency.scale"
	cfgKeyRemoteBaseURL   = "remote.base_url"
	cfgKeyRemoteTimeout   = "remote.timeout"
	cfgKeyServerAddr      = "server.addr"
	cfgKeyFixturesDir     = "fixtures.dir"
	cfgKeyFixturesBaseURL = "fixtures.base_url"

	defaultBackend    = types.BackendSQLite
	defaultServerAddr = ":8080"
)

// configDefaults registers every key with viper, so environment overrides
// reach Unmarshal even when config.yaml leaves a key out.
var configDefaults = map[string]any{
	cfgKeyBackend:         defaultBackend,
	cfgKeyDataDir:         "",
	cfgKeyRedisAddr:       "",
	cfgKeyPostgresDSN:     "",
	cfgKeyLatencyEnabled:  true,
	cfgKeyLatencyScale:    1.0,
	cfgKeyRemoteBaseURL:   "",
	cfgKeyRemoteTimeout:   api.DefaultRemoteTimeout,
	cfgKeyServerAddr:      defaultServerAddr,
	cfgKeyFixturesDir:     "",
	cfgKeyFixturesBaseURL: "",
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# admindesk configuration
# Every key can be overridden from the environment, e.g.
# ADMINDESK_STORAGE_BACKEND=memory.

storage:
  # file, sqlite, redis, postgres or memory
  backend: sqlite
  # Data directory for the file and sqlite backends, relative to this
  # file's directory (overridable by --data-dir)
  # data_dir: data
  # redis_addr: localhost:6379
  # postgres_dsn: postgres://localhost:5432/admindesk

# Simulated per-operation delay of the store. scale multiplies the
# built-in delays.
latency:
  enabled: true
  scale: 1.0

# Product endpoint tried before the store.
remote:
  # base_url: http://localhost:8080
  timeout: 5s

server:
  addr: ":8080"

# Seed files; dir wins over base_url, the bundled set is used otherwise.
# fixtures:
#   dir: ./fixtures
#   base_url: http://localhost:8080
`

// loadConfig reads config.yaml from configDir using Viper, applies
// environment overrides and resolves the data directory. It creates the
// config directory and a default config.yaml on first run.
func loadConfig(env paths.Env, configDir, dataDirFlag string) (types.Config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, sysErrorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, sysErrorf("ensure default config: %w", err)
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("%w: read config: %w", types.ErrValidation, err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("%w: decode config: %w", types.ErrValidation, err)
	}

	dataDir, err := env.DataDir(dataDirFlag, cfg.Storage.DataDir, configDir)
	if err != nil {
		return types.Config{}, sysErrorf("resolve data dir: %w", err)
	}
	cfg.Storage.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", filepath.Join(configDir, paths.ConfigFile), err)
	}
	return cfg, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFile)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
