// Package config provides Viper-based configuration loading for the
// auto-battle simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CombatConfig holds encounter tuning settings.
type CombatConfig struct {
	// TickInterval is the simulation step interval.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// MobCount is the monster group size per encounter.
	MobCount int `mapstructure:"mob_count"`
	// RespawnDelay is the wait between a group wipe and the next spawn.
	RespawnDelay time.Duration `mapstructure:"respawn_delay"`
	// AnimationLead is the simulated attack animation duration; zero
	// resolves attacks synchronously.
	AnimationLead time.Duration `mapstructure:"animation_lead"`
}

// ContentConfig holds content directory paths.
type ContentConfig struct {
	// MonstersDir is the directory of monster template YAML files.
	MonstersDir string `mapstructure:"monsters_dir"`
	// ItemsDir is the directory of item definition YAML files.
	ItemsDir string `mapstructure:"items_dir"`
}

// PlayerConfig holds the starting player parameters.
type PlayerConfig struct {
	// Name is the player's display name.
	Name string `mapstructure:"name"`
	// MaxHealth is the level-1 base health pool.
	MaxHealth float64 `mapstructure:"max_health"`
	// AttackDamage is the level-1 base damage per hit.
	AttackDamage float64 `mapstructure:"attack_damage"`
	// AttackPeriod is the base seconds between attacks.
	AttackPeriod float64 `mapstructure:"attack_period"`
	// InventoryCapacity is the inventory slot count.
	InventoryCapacity int `mapstructure:"inventory_capacity"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Combat  CombatConfig  `mapstructure:"combat"`
	Content ContentConfig `mapstructure:"content"`
	Player  PlayerConfig  `mapstructure:"player"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePlayer(c.Player); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("combat.tick_interval must be > 0, got %s", c.TickInterval))
	}
	if c.MobCount < 1 {
		errs = append(errs, fmt.Sprintf("combat.mob_count must be >= 1, got %d", c.MobCount))
	}
	if c.RespawnDelay < 0 {
		errs = append(errs, fmt.Sprintf("combat.respawn_delay must be >= 0, got %s", c.RespawnDelay))
	}
	if c.AnimationLead < 0 {
		errs = append(errs, fmt.Sprintf("combat.animation_lead must be >= 0, got %s", c.AnimationLead))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if p.MaxHealth <= 0 {
		errs = append(errs, fmt.Sprintf("player.max_health must be > 0, got %f", p.MaxHealth))
	}
	if p.AttackDamage < 0 {
		errs = append(errs, fmt.Sprintf("player.attack_damage must be >= 0, got %f", p.AttackDamage))
	}
	if p.AttackPeriod <= 0 {
		errs = append(errs, fmt.Sprintf("player.attack_period must be > 0, got %f", p.AttackPeriod))
	}
	if p.InventoryCapacity < 1 {
		errs = append(errs, fmt.Sprintf("player.inventory_capacity must be >= 1, got %d", p.InventoryCapacity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with GRIND_ prefix
	v.SetEnvPrefix("GRIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("combat.tick_interval", "100ms")
	v.SetDefault("combat.mob_count", 3)
	v.SetDefault("combat.respawn_delay", "3s")
	v.SetDefault("combat.animation_lead", "250ms")

	v.SetDefault("content.monsters_dir", "content/monsters")
	v.SetDefault("content.items_dir", "content/items")

	v.SetDefault("player.name", "adventurer")
	v.SetDefault("player.max_health", 100)
	v.SetDefault("player.attack_damage", 10)
	v.SetDefault("player.attack_period", 1.5)
	v.SetDefault("player.inventory_capacity", 24)
}
