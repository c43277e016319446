// Package mintconfig holds the read-only mint parameters.
package mintconfig

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Phase describes a timed allowlist phase.
type Phase struct {
	DurationHours int     `yaml:"duration_hours" json:"duration_hours"`
	MaxPerWallet  int     `yaml:"max_per_wallet" json:"max_per_wallet"`
	Price         float64 `yaml:"price" json:"price"`
}

// Duration converts DurationHours to a time.Duration.
func (p Phase) Duration() time.Duration {
	return time.Duration(p.DurationHours) * time.Hour
}

// PublicPhase has no fixed duration.
type PublicPhase struct {
	MaxPerWallet int     `yaml:"max_per_wallet" json:"max_per_wallet"`
	Price        float64 `yaml:"price" json:"price"`
}

// Config is the mint configuration record.
type Config struct {
	MaxSupply int         `yaml:"max_supply" json:"max_supply"`
	Minted    int         `yaml:"minted" json:"minted"`
	OG        Phase       `yaml:"og" json:"og"`
	WL        Phase       `yaml:"wl" json:"wl"`
	Public    PublicPhase `yaml:"public" json:"public"`
}

// Remaining is the unminted supply.
func (c *Config) Remaining() int {
	return c.MaxSupply - c.Minted
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := parse(&Config{}, defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("mintconfig: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load returns the defaults overlaid with the YAML file at path. Fields
// missing from the file keep their default values. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("read mint config: %w", err)
	}
	return parse(cfg, data)
}

func parse(base *Config, data []byte) (*Config, error) {
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse mint config: %w", err)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// Validate rejects negative quantities and over-minted supply.
func (c *Config) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	check("max_supply", float64(c.MaxSupply))
	check("minted", float64(c.Minted))
	check("og.duration_hours", float64(c.OG.DurationHours))
	check("og.max_per_wallet", float64(c.OG.MaxPerWallet))
	check("og.price", c.OG.Price)
	check("wl.duration_hours", float64(c.WL.DurationHours))
	check("wl.max_per_wallet", float64(c.WL.MaxPerWallet))
	check("wl.price", c.WL.Price)
	check("public.max_per_wallet", float64(c.Public.MaxPerWallet))
	check("public.price", c.Public.Price)

	if c.Minted > c.MaxSupply {
		errs = append(errs, fmt.Errorf("minted (%d) exceeds max_supply (%d)", c.Minted, c.MaxSupply))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid mint config: %w", err)
	}
	return nil
}
