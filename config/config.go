// Package config loads session settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/types"
)

// Log selects logger level and format.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Player overrides fields of the default player profile. Zero values keep
// the default.
type Player struct {
	MaxHealth   int `yaml:"max_health"`
	AttackPower int `yaml:"attack_power"`
	Defense     int `yaml:"defense"`
	MaxMP       int `yaml:"max_mp"`
	MPRegen     int `yaml:"mp_regen"`
}

// Config is the top-level settings file.
type Config struct {
	TurnLimit int    `yaml:"turn_limit"`
	Seed      int64  `yaml:"seed"`
	Enemy     string `yaml:"enemy"`
	Tree      string `yaml:"tree"`
	RosterDir string `yaml:"roster_dir"`
	Trials    int    `yaml:"trials"`
	Log       Log    `yaml:"log"`
	Player    Player `yaml:"player"`
}

// Default returns the canonical settings.
func Default() Config {
	return Config{
		TurnLimit: state.DefaultTurnLimit,
		Seed:      1,
		Enemy:     "FireGolem",
		Trials:    1,
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over Default. Fields missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.TurnLimit <= 0 {
		return fmt.Errorf("turn_limit must be positive, got %d", c.TurnLimit)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Player.MaxHealth < 0 || c.Player.AttackPower < 0 || c.Player.Defense < 0 ||
		c.Player.MaxMP < 0 || c.Player.MPRegen < 0 {
		return fmt.Errorf("player overrides must not be negative")
	}
	return nil
}

// ApplyPlayer returns p with the configured overrides applied. Current HP
// and MP follow a changed maximum.
func (c Config) ApplyPlayer(p types.PlayerProfile) types.PlayerProfile {
	o := c.Player
	if o.MaxHealth > 0 {
		p.Stats.MaxHealth = o.MaxHealth
		p.Stats.CurrentHealth = o.MaxHealth
	}
	if o.AttackPower > 0 {
		p.Stats.AttackPower = o.AttackPower
	}
	if o.Defense > 0 {
		p.Stats.Defense = o.Defense
	}
	if o.MaxMP > 0 {
		p.MP.Max = o.MaxMP
		p.MP.Current = o.MaxMP
	}
	if o.MPRegen > 0 {
		p.MP.Regen = o.MPRegen
	}
	return p
}
