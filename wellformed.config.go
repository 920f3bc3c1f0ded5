package wellformed

import (
	"os"
	"slices"
	"time"

	"github.com/itsatony/go-cuserr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration read from wellformed.yaml.
//
//	log:     { level: info, format: json }
//	checker: { max_input_size: 0 }
//	cache:   { enabled: true, ttl: 5m, max_entries: 1000, max_input_size: 1048576 }
//	storage: { driver: memory, dsn: "", cache_ttl: 0 }
//	server:  { address: ":8080", max_body_bytes: 1048576, read_timeout: 10s }
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Checker CheckerConfig `yaml:"checker"`
	Cache   CacheConfig   `yaml:"cache"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// LogConfig selects the zap logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CheckerConfig carries Checker options.
type CheckerConfig struct {
	MaxInputSize int `yaml:"max_input_size"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	TTL          time.Duration `yaml:"ttl"`
	MaxEntries   int           `yaml:"max_entries"`
	MaxInputSize int           `yaml:"max_input_size"`
}

// StorageConfig selects the report storage driver. A positive CacheTTL
// wraps the opened storage in a CachedReportStorage.
type StorageConfig struct {
	Driver   string        `yaml:"driver"`
	DSN      string        `yaml:"dsn"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatJSON,
		},
		Checker: CheckerConfig{
			MaxInputSize: DefaultMaxInputSize,
		},
		Cache: CacheConfig{
			Enabled:      true,
			TTL:          DefaultCacheTTL,
			MaxEntries:   DefaultCacheMaxEntries,
			MaxInputSize: DefaultCacheMaxInputSize,
		},
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
		Server: ServerConfig{
			Address:         DefaultServerAddress,
			MaxBodyBytes:    DefaultServerMaxBodyBytes,
			ReadTimeout:     DefaultServerReadTimeout,
			WriteTimeout:    DefaultServerWriteTimeout,
			ShutdownTimeout: DefaultServerShutdownTimeout,
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults, applies
// environment overrides and validates the result. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewConfigLoadError(ErrMsgConfigRead, path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, NewConfigLoadError(ErrMsgConfigDecode, path, err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv applies environment overrides. The DSN often carries credentials
// and is kept out of config files. Empty values do not override.
func (c *Config) applyEnv() {
	if dsn := os.Getenv(EnvStorageDSN); dsn != "" {
		c.Storage.DSN = dsn
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return NewConfigError(ErrMsgConfigLogLevel, ConfigFieldLogLevel)
	}
	if c.Log.Format != LogFormatJSON && c.Log.Format != LogFormatConsole {
		return NewConfigError(ErrMsgConfigLogFormat, ConfigFieldLogFormat)
	}
	if c.Checker.MaxInputSize < 0 {
		return NewConfigError(ErrMsgNegativeMaxInput, ConfigFieldCheckerMaxInput)
	}
	if c.Cache.TTL < 0 {
		return NewConfigError(ErrMsgConfigNegative, ConfigFieldCacheTTL)
	}
	if c.Cache.MaxEntries < 0 {
		return NewConfigError(ErrMsgConfigNegative, ConfigFieldCacheMaxEntries)
	}
	if c.Cache.MaxInputSize < 0 {
		return NewConfigError(ErrMsgConfigNegative, ConfigFieldCacheMaxInput)
	}
	if !slices.Contains(ListStorageDrivers(), c.Storage.Driver) {
		return NewConfigError(ErrMsgConfigStorageDriver, ConfigFieldStorageDriver)
	}
	if c.Storage.Driver != StorageDriverMemory && c.Storage.DSN == "" {
		return NewConfigError(ErrMsgConfigStorageDSN, ConfigFieldStorageDSN)
	}
	if c.Storage.CacheTTL < 0 {
		return NewConfigError(ErrMsgConfigNegative, ConfigFieldStorageCacheTTL)
	}
	if c.Server.Address == "" {
		return NewConfigError(ErrMsgConfigServerAddress, ConfigFieldServerAddress)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return NewConfigError(ErrMsgConfigNotPositive, ConfigFieldServerMaxBody)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return NewConfigError(ErrMsgConfigNegative, ConfigFieldServerTimeouts)
	}
	return nil
}

// NewLogger builds a zap logger from the log section. Logs go to stderr.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigLogLevel, ConfigFieldLogLevel)
	}

	zc := zap.NewProductionConfig()
	if c.Format == LogFormatConsole {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{LogOutputStderr}
	zc.ErrorOutputPaths = []string{LogOutputStderr}

	logger, err := zc.Build()
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgConfigLogger).
			WithMetadata(MetaKeyField, ConfigFieldLogFormat)
	}
	return logger, nil
}

// Options returns the Checker options for this config.
func (c *Config) Options(logger *zap.Logger) []Option {
	return []Option{
		WithMaxInputSize(c.Checker.MaxInputSize),
		WithLogger(logger),
	}
}

// ResultCacheConfig converts the cache section.
func (c CacheConfig) ResultCacheConfig() ResultCacheConfig {
	return ResultCacheConfig{
		TTL:          c.TTL,
		MaxEntries:   c.MaxEntries,
		MaxInputSize: c.MaxInputSize,
	}
}

// Open opens the configured report storage. Postgres storage is migrated on
// open and logs migrations to logger.
func (c StorageConfig) Open(logger *zap.Logger) (ReportStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		storage ReportStorage
		err     error
	)
	if c.Driver == StorageDriverPostgres {
		pc := DefaultPostgresConfig()
		pc.ConnectionString = c.DSN
		pc.AutoMigrate = true
		pc.Logger = logger
		storage, err = NewPostgresStorage(pc)
	} else {
		storage, err = OpenStorage(c.Driver, c.DSN)
	}
	if err != nil {
		return nil, NewStorageOpenError(c.Driver, err)
	}
	logger.Debug(LogMsgStorageOpened,
		zap.String(LogFieldDriver, c.Driver),
		zap.Duration(LogFieldDuration, c.CacheTTL))

	if c.CacheTTL > 0 {
		cc := DefaultReportCacheConfig()
		cc.TTL = c.CacheTTL
		return NewCachedReportStorage(storage, cc), nil
	}
	return storage, nil
}
