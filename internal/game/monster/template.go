// Package monster provides monster template definitions and loot resolution.
package monster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable monster archetype loaded from YAML.
// Templates are immutable after load; live slots reference them by pointer.
type Template struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Level       int     `yaml:"level"`
	MaxHealth   float64 `yaml:"max_health"`
	// AttackDamage is the flat damage per hit.
	AttackDamage float64 `yaml:"attack_damage"`
	// AttackPeriod is the seconds between attack triggers.
	AttackPeriod float64 `yaml:"attack_period"`
	// XPReward is the base experience granted on kill, before multipliers.
	XPReward int `yaml:"xp_reward"`
	// GoldReward is the base gold granted on kill, before multipliers.
	GoldReward int        `yaml:"gold_reward"`
	Loot       *LootTable `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxHealth > 0, AttackDamage >= 0, AttackPeriod > 0, and rewards are >= 0;
// returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("monster template %q: level must be >= 1", t.ID)
	}
	if t.MaxHealth <= 0 {
		return fmt.Errorf("monster template %q: max_health must be > 0", t.ID)
	}
	if t.AttackDamage < 0 {
		return fmt.Errorf("monster template %q: attack_damage must be >= 0", t.ID)
	}
	if t.AttackPeriod <= 0 {
		return fmt.Errorf("monster template %q: attack_period must be > 0", t.ID)
	}
	if t.XPReward < 0 {
		return fmt.Errorf("monster template %q: xp_reward must be >= 0", t.ID)
	}
	if t.GoldReward < 0 {
		return fmt.Errorf("monster template %q: gold_reward must be >= 0", t.ID)
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("monster template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single monster template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
