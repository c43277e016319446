// Package config provides centralized configuration management for mintgate.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults registers default values on v. Every key that should be
// overridable from the environment needs a default here.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trust_proxy_headers", false)

	// Store defaults
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_open_conns", 10)
	v.SetDefault("store.max_idle_conns", 5)
	v.SetDefault("store.conn_max_lifetime", "30m")
	v.SetDefault("store.conn_max_idle_time", "5m")
	v.SetDefault("store.connect_timeout", "5s")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.sign_in_rate", 5.0)
	v.SetDefault("auth.sign_in_burst", 5)

	// Eligibility rate limit defaults
	v.SetDefault("rate_limit.max_requests", 5)
	v.SetDefault("rate_limit.window", "60s")
	v.SetDefault("rate_limit.sweep_interval", "5m")

	v.SetDefault("mint.config_file", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("health.enabled", true)

	// Debug defaults
	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.pprof_enabled", false)
}

// ConfigureEnv binds MINTGATE_* style environment variables to nested keys,
// e.g. MINTGATE_STORE_DSN -> store.dsn.
func ConfigureEnv(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(strings.TrimSuffix(prefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes the settings held by v into a typed Config, validates it and
// makes it the current configuration.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.New("viper instance is required")
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			problems = append(problems, "store.dsn is required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported store.driver %q", c.Store.Driver))
	}

	if c.RateLimit.MaxRequests < 1 {
		problems = append(problems, "rate_limit.max_requests must be at least 1")
	}
	if c.RateLimit.Window <= 0 {
		problems = append(problems, "rate_limit.window must be positive")
	}
	if c.RateLimit.SweepInterval < 0 {
		problems = append(problems, "rate_limit.sweep_interval must not be negative")
	}

	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "auth.token_ttl must be positive")
	}
	if c.Auth.SignInRate <= 0 || c.Auth.SignInBurst < 1 {
		problems = append(problems, "auth.sign_in_rate and auth.sign_in_burst must be positive")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown logging.level %q", c.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigDir returns the XDG config directory for name
// ($XDG_CONFIG_HOME/<name>, else ~/.config/<name>). It returns "" when
// neither can be resolved.
func DefaultConfigDir(name string) string {
	if name == "" || gfconfig.GetXDGBaseDirs().ConfigHome == "" {
		return ""
	}
	return gfconfig.GetAppConfigDir(name)
}

// DefaultConfigPath returns the user config file path for name.
func DefaultConfigPath(name string) string {
	dir := DefaultConfigDir(name)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
