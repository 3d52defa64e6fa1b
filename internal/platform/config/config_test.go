package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigDir creates a config directory holding the given files.
func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	return dir
}

func loadDefaults(t *testing.T) *Config {
	t.Helper()

	cfg, err := LoadDir(t.TempDir(), "")
	require.NoError(t, err)

	return cfg
}

func TestLoadDir_Defaults(t *testing.T) {
	cfg := loadDefaults(t)
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"app name", cfg.App.Name, "quote-service"},
		{"app version", cfg.App.Version, "dev"},
		{"environment", cfg.App.Environment, "local"},
		{"port", cfg.Server.Port, DefaultServerPort},
		{"host", cfg.Server.Host, "0.0.0.0"},
		{"compression", cfg.Server.Compression, true},
		{"read timeout", cfg.Server.ReadTimeout, 30 * time.Second},
		{"write timeout", cfg.Server.WriteTimeout, 30 * time.Second},
		{"idle timeout", cfg.Server.IdleTimeout, 120 * time.Second},
		{"shutdown timeout", cfg.Server.ShutdownTimeout, 10 * time.Second},
		{"request timeout", cfg.Server.RequestTimeout, 30 * time.Second},
		{"log level", cfg.Log.Level, "info"},
		{"log format", cfg.Log.Format, "json"},
		{"log file off", cfg.Log.File.Enabled, false},
		{"log file path", cfg.Log.File.Path, "./logs/app.log"},
		{"log file size", cfg.Log.File.MaxSizeMB, DefaultLogFileMaxSizeMB},
		{"log file backups", cfg.Log.File.MaxBackups, DefaultLogFileMaxBackups},
		{"log file age", cfg.Log.File.MaxAgeDays, DefaultLogFileMaxAgeDays},
		{"embedded dataset", cfg.Quotes.Path, ""},
		{"telemetry off", cfg.Telemetry.Enabled, false},
		{"telemetry name", cfg.Telemetry.ServiceName, "quote-service"},
		{"sampling", cfg.Telemetry.SamplingRate, 1.0},
		{"avatars on", cfg.Avatar.Enabled, true},
		{"avatar timeout", cfg.Avatar.Timeout, 5 * time.Second},
		{"avatar max bytes", cfg.Avatar.MaxBytes, int64(DefaultAvatarMaxBytes)},
		{"avatar attempts", cfg.Avatar.Retry.MaxAttempts, DefaultAvatarRetryMaxAttempts},
		{"avatar multiplier", cfg.Avatar.Retry.Multiplier, DefaultClientRetryMultiplier},
		{"breaker failures", cfg.Avatar.CircuitBreaker.MaxFailures, DefaultClientCircuitMaxFailures},
		{"breaker cool-down", cfg.Avatar.CircuitBreaker.Timeout, 30 * time.Second},
		{"breaker probes", cfg.Avatar.CircuitBreaker.HalfOpenLimit, DefaultClientCircuitHalfOpenLimit},
		{"breaker per host", cfg.Avatar.CircuitBreaker.PerHost, true},
		{"idle conns", cfg.Avatar.Transport.MaxIdleConns, DefaultTransportMaxIdleConns},
		{"idle conn timeout", cfg.Avatar.Transport.IdleConnTimeout, DefaultTransportIdleConnTimeout},
		{"limiter on", cfg.RateLimit.Enabled, true},
		{"per minute", cfg.RateLimit.PerMinute, 2},
		{"per hour", cfg.RateLimit.PerHour, 60},
		{"per day", cfg.RateLimit.PerDay, 200},
		{"sweep", cfg.RateLimit.SweepInterval, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadDir_EnvOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("APP_RATE_LIMIT_ENABLED", "false")
	t.Setenv("APP_TELEMETRY_ENABLED", "true")
	t.Setenv("APP_AVATAR_MAX_BYTES", "2048")
	t.Setenv("APP_AVATAR_CIRCUIT_BREAKER_TIMEOUT", "45s")
	t.Setenv("APP_SERVER_TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg := loadDefaults(t)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 10, cfg.RateLimit.PerMinute)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, int64(2048), cfg.Avatar.MaxBytes)
	assert.Equal(t, 45*time.Second, cfg.Avatar.CircuitBreaker.Timeout)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
}

func TestLoadDir_Layering(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": "log:\n  format: text\nrate_limit:\n  per_hour: 100\n  per_day: 500\n",
		"qa.yaml":   "app:\n  environment: qa\nrate_limit:\n  per_hour: 120\n",
	})

	t.Setenv("APP_RATE_LIMIT_PER_DAY", "900")

	cfg, err := LoadDir(dir, "qa")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Log.Format, "base over defaults")
	assert.Equal(t, "qa", cfg.App.Environment, "profile over defaults")
	assert.Equal(t, 120, cfg.RateLimit.PerHour, "profile over base")
	assert.Equal(t, 900, cfg.RateLimit.PerDay, "env over base")
	assert.Equal(t, DefaultRateLimitPerMinute, cfg.RateLimit.PerMinute, "untouched default")
}

func TestLoadDir_MissingProfile(t *testing.T) {
	cfg, err := LoadDir(writeConfigDir(t, nil), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "quote-service", cfg.App.Name)
}

func TestLoadDir_InvalidYAML(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		profile string
		wantErr string
	}{
		{"base", map[string]string{"base.yaml": "log: [unclosed"}, "", "loading base config"},
		{"profile", map[string]string{"prod.yaml": "server: {port"}, "prod", `loading profile config "prod"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDir(writeConfigDir(t, tt.files), tt.profile)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_ConfigDirEnv(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{"base.yaml": "app:\n  name: quotes-from-env-dir\n"})
	t.Setenv(ConfigDirEnv, dir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quotes-from-env-dir", cfg.App.Name)
}

func TestLoad_ShippedProfiles(t *testing.T) {
	t.Setenv(ConfigDirEnv, filepath.Join("..", "..", "..", "configs"))

	for _, profile := range []string{"", "local", "prod"} {
		t.Run("profile="+profile, func(t *testing.T) {
			cfg, err := Load(profile)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper(defaults())

	tests := map[string]string{
		"APP_SERVER_PORT":                            "server.port",
		"APP_RATE_LIMIT_PER_MINUTE":                  "rate_limit.per_minute",
		"APP_AVATAR_CIRCUIT_BREAKER_HALF_OPEN_LIMIT": "avatar.circuit_breaker.half_open_limit",
		"APP_AVATAR_CIRCUIT_BREAKER_PER_HOST":        "avatar.circuit_breaker.per_host",
		"APP_LOG_FILE_MAX_BACKUPS":                   "log.file.max_backups",
		"APP_UNKNOWN_KEY":                            "unknown.key",
	}

	for env, want := range tests {
		t.Run(env, func(t *testing.T) {
			assert.Equal(t, want, mapper(env))
		})
	}
}
