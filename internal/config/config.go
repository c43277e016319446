package config

import "time"

// Config represents the complete application configuration. Values are
// layered by viper: defaults, then the config file, then MINTGATE_*
// environment variables, then bound flags.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Mint      MintConfig      `mapstructure:"mint"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Debug     DebugConfig     `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// TrustProxyHeaders keys clients on X-Forwarded-For / X-Real-IP instead
	// of the TCP peer. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// StoreConfig selects the allowlist backend. The postgres driver requires a
// DSN; the memory driver keeps everything in process.
type StoreConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// AuthConfig configures admin sessions.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	// SignInRate is the number of failed sign-in attempts per minute an email
	// regains; SignInBurst is how many it may spend at once.
	SignInRate  float64 `mapstructure:"sign_in_rate"`
	SignInBurst int     `mapstructure:"sign_in_burst"`
}

// RateLimitConfig configures the eligibility check limiter.
type RateLimitConfig struct {
	MaxRequests   int           `mapstructure:"max_requests"`
	Window        time.Duration `mapstructure:"window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// MintConfig points at an optional mint configuration override file.
type MintConfig struct {
	ConfigFile string `mapstructure:"config_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile is "structured" (JSON) or "console".
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration
type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// PprofEnabled mounts /debug/pprof on the API router.
	// Only enable in development/staging environments.
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
