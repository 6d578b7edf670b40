// Package config provides configuration helpers and config file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Evaluation EvaluationConfig  `toml:"evaluation" yaml:"evaluation"`
	Keyboard   KeyboardConfig    `toml:"keyboard" yaml:"keyboard"`
	Metrics    MetricsConfig     `toml:"metrics" yaml:"metrics"`
	Layouts    map[string]string `toml:"layouts" yaml:"layouts"`
}

// EvaluationConfig maps evaluation-related settings.
type EvaluationConfig struct {
	Corpus  *string  `toml:"corpus" yaml:"corpus"`
	Corpora []string `toml:"corpora" yaml:"corpora"`
	Text    *string  `toml:"text" yaml:"text"`
	Jobs    *int     `toml:"jobs" yaml:"jobs"`
	Worst   *int     `toml:"worst" yaml:"worst"`
	Save    *bool    `toml:"save" yaml:"save"`
}

// KeyboardConfig describes a custom keyboard. With no keys the Svalboard is used.
type KeyboardConfig struct {
	Name     string      `toml:"name" yaml:"name"`
	ShiftKey *int        `toml:"shift_key" yaml:"shift_key"`
	Keys     []KeyConfig `toml:"keys" yaml:"keys"`
}

// KeyConfig is one physical key.
type KeyConfig struct {
	Hand        string    `toml:"hand" yaml:"hand"`
	Finger      string    `toml:"finger" yaml:"finger"`
	Col         int       `toml:"col" yaml:"col"`
	Row         int       `toml:"row" yaml:"row"`
	Unbalancing []float64 `toml:"unbalancing" yaml:"unbalancing"`
}

// MetricToggle holds the settings shared by every metric section.
type MetricToggle struct {
	Enabled   *bool    `toml:"enabled" yaml:"enabled"`
	Weight    *float64 `toml:"weight" yaml:"weight"`
	Normalize *bool    `toml:"normalize" yaml:"normalize"`
}

// FingerSwitchConfig is one entry of a finger switch cost list.
type FingerSwitchConfig struct {
	From string  `toml:"from" yaml:"from"`
	To   string  `toml:"to" yaml:"to"`
	Cost float64 `toml:"cost" yaml:"cost"`
}

// StdFingerRepeatsConfig maps [metrics.std_finger_repeats].
type StdFingerRepeatsConfig struct {
	MetricToggle      `yaml:",inline"`
	IndexFingerFactor *float64 `toml:"index_finger_factor" yaml:"index_finger_factor"`
	PinkyFingerFactor *float64 `toml:"pinky_finger_factor" yaml:"pinky_finger_factor"`
	UnbalancingFactor *float64 `toml:"unbalancing_factor" yaml:"unbalancing_factor"`
}

// MovementConfig maps [metrics.std_movement_pattern] and [metrics.movement_pattern].
type MovementConfig struct {
	MetricToggle                         `yaml:",inline"`
	FingerSwitchFactor                   []FingerSwitchConfig          `toml:"finger_switch_factor" yaml:"finger_switch_factor"`
	FingerLengths                        map[string]map[string]float64 `toml:"finger_lengths" yaml:"finger_lengths"`
	ShortDownToLongOrLongUpToShortFactor *float64                      `toml:"short_down_to_long_or_long_up_to_short_factor" yaml:"short_down_to_long_or_long_up_to_short_factor"`
	SameRowOffset                        *float64                      `toml:"same_row_offset" yaml:"same_row_offset"`
	UnbalancingFactor                    *float64                      `toml:"unbalancing_factor" yaml:"unbalancing_factor"`
	LateralStretchFactor                 *float64                      `toml:"lateral_stretch_factor" yaml:"lateral_stretch_factor"`
}

// SvalFingerRepeatsConfig maps [metrics.sval_finger_repeats].
type SvalFingerRepeatsConfig struct {
	MetricToggle  `yaml:",inline"`
	FingerFactors map[string]float64 `toml:"finger_factors" yaml:"finger_factors"`
}

// SvalMovementConfig maps [metrics.sval_movement_pattern].
type SvalMovementConfig struct {
	MetricToggle       `yaml:",inline"`
	FingerSwitchFactor []FingerSwitchConfig `toml:"finger_switch_factor" yaml:"finger_switch_factor"`
}

// MetricsConfig holds one optional section per metric kind.
type MetricsConfig struct {
	StdFingerRepeats    *StdFingerRepeatsConfig  `toml:"std_finger_repeats" yaml:"std_finger_repeats"`
	StdMovementPattern  *MovementConfig          `toml:"std_movement_pattern" yaml:"std_movement_pattern"`
	SvalFingerRepeats   *SvalFingerRepeatsConfig `toml:"sval_finger_repeats" yaml:"sval_finger_repeats"`
	SvalMovementPattern *SvalMovementConfig      `toml:"sval_movement_pattern" yaml:"sval_movement_pattern"`
	MovementPattern     *MovementConfig          `toml:"movement_pattern" yaml:"movement_pattern"`
}

// LoadConfig reads a config from the given path. Files ending in .yml or .yaml
// are decoded as YAML, everything else as TOML. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}

// EnsureConfigFile writes the default template if the file does not exist yet.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ResolveLayout returns the symbols of a named layout from the config, or arg
// itself when no layout has that name.
func (c FileConfig) ResolveLayout(arg string) (name, symbols string) {
	if s, ok := c.Layouts[arg]; ok {
		return arg, s
	}
	return arg, arg
}

// CorpusPaths returns the configured corpora, falling back to the single
// corpus setting. It returns nil when neither is set.
func (c EvaluationConfig) CorpusPaths() []string {
	if len(c.Corpora) > 0 {
		return append([]string(nil), c.Corpora...)
	}
	if c.Corpus != nil {
		return []string{*c.Corpus}
	}
	return nil
}

// DefaultTemplate is written by `keycost config` when no config exists.
const DefaultTemplate = `# keycost configuration

[evaluation]
# corpus = "~/.local/share/keycost/2-grams.txt"
# corpora = ["~/corpora/eng/2-grams.txt", "~/corpora/deu/2-grams.txt"]
# jobs = 4
# worst = 10
# save = false

[layouts]
# qwerty = "qwertyuiopasdfghjklzxcvbnm"

[metrics.sval_finger_repeats]
enabled = true
weight = 1.0
normalize = true

[metrics.sval_finger_repeats.finger_factors]
thumb = 1.0
index = 0.9
middle = 1.0
ring = 1.2
pinky = 1.5

[metrics.sval_movement_pattern]
enabled = true
weight = 1.0
normalize = true

# A list replaces the built-in finger switch costs.
# [[metrics.sval_movement_pattern.finger_switch_factor]]
# from = "middle"
# to = "index"
# cost = 0.1

[metrics.std_finger_repeats]
enabled = false
index_finger_factor = 0.9
pinky_finger_factor = 1.2
unbalancing_factor = 0.7

[metrics.std_movement_pattern]
enabled = false
short_down_to_long_or_long_up_to_short_factor = 2.0
same_row_offset = 0.5
unbalancing_factor = 1.2
lateral_stretch_factor = 0.5
`
