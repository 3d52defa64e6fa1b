// Package config loads the layered quote-service configuration with koanf
// and validates it with go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20 // 1048576 bytes

	// DefaultAvatarMaxBytes caps a downloaded avatar image (1MB).
	DefaultAvatarMaxBytes = 1 << 20

	// DefaultAvatarRetryMaxAttempts is a single attempt: avatars fail open.
	DefaultAvatarRetryMaxAttempts = 1

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultTransportIdleConnTimeout is the default idle connection timeout.
	DefaultTransportIdleConnTimeout = 90 * time.Second

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultRateLimitPerMinute is the default requests per client per minute.
	DefaultRateLimitPerMinute = 2

	// DefaultRateLimitPerHour is the default requests per client per hour.
	DefaultRateLimitPerHour = 60

	// DefaultRateLimitPerDay is the default requests per client per day.
	DefaultRateLimitPerDay = 200
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"        validate:"required"`
	Server    ServerConfig    `koanf:"server"     validate:"required"`
	Log       LogConfig       `koanf:"log"        validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Quotes    QuotesConfig    `koanf:"quotes"`
	Avatar    AvatarConfig    `koanf:"avatar"     validate:"required"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	Compression     bool          `koanf:"compression"`
	TrustedProxies  []string      `koanf:"trusted_proxies"  validate:"omitempty,dive,cidr|ip"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// QuotesConfig locates the quote dataset.
type QuotesConfig struct {
	// Path is a JSON dataset on disk. Empty uses the dataset bundled in the binary.
	Path string `koanf:"path" validate:"omitempty,file"`
}

// AvatarConfig contains settings for downloading author avatars.
type AvatarConfig struct {
	Enabled        bool                 `koanf:"enabled"`
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	MaxBytes       int64                `koanf:"max_bytes"       validate:"required,min=1"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
// PerHost gives every downstream host its own breaker.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
	PerHost       bool          `koanf:"per_host"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// RateLimitConfig contains per-client request limits.
// A request is admitted only when every window admits it.
type RateLimitConfig struct {
	Enabled       bool          `koanf:"enabled"`
	PerMinute     int           `koanf:"per_minute"     validate:"required_if=Enabled true,omitempty,min=1"`
	PerHour       int           `koanf:"per_hour"       validate:"required_if=Enabled true,omitempty,min=1"`
	PerDay        int           `koanf:"per_day"        validate:"required_if=Enabled true,omitempty,min=1"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"omitempty,min=1s"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "30s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.compression":      true,
		"server.trusted_proxies":  []string{},

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-service",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"quotes.path": "",

		"avatar.enabled":                           true,
		"avatar.timeout":                           "5s",
		"avatar.max_bytes":                         DefaultAvatarMaxBytes,
		"avatar.retry.max_attempts":                DefaultAvatarRetryMaxAttempts,
		"avatar.retry.initial_interval":            "100ms",
		"avatar.retry.max_interval":                "1s",
		"avatar.retry.multiplier":                  DefaultClientRetryMultiplier,
		"avatar.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"avatar.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"avatar.circuit_breaker.timeout":           "30s",
		"avatar.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"avatar.circuit_breaker.per_host":          true,
		"avatar.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"avatar.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"avatar.transport.idle_conn_timeout":       "90s",

		"rate_limit.enabled":        true,
		"rate_limit.per_minute":     DefaultRateLimitPerMinute,
		"rate_limit.per_hour":       DefaultRateLimitPerHour,
		"rate_limit.per_day":        DefaultRateLimitPerDay,
		"rate_limit.sweep_interval": "10m",
	}
}

// ConfigDirEnv overrides the directory holding base.yaml and profiles.
const ConfigDirEnv = "QUOTE_CONFIG_DIR"

// Load reads configuration from the directory named by QUOTE_CONFIG_DIR,
// or ./configs when unset. See LoadDir.
func Load(profile string) (*Config, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = "configs"
	}

	return LoadDir(dir, profile)
}

// LoadDir layers, lowest precedence first: built-in defaults,
// dir/base.yaml, dir/<profile>.yaml and APP_ environment variables.
// Missing files are skipped.
func LoadDir(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider("APP_", ".", envKeyMapper(defaults())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_RATE_LIMIT_PER_MINUTE to rate_limit.per_minute.
// Known keys are matched exactly so underscores inside key names survive;
// anything else falls back to treating every underscore as a separator.
func envKeyMapper(known map[string]any) func(string) string {
	lookup := make(map[string]string, len(known))
	for key := range known {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := lookup[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
