// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iwvelando/greenseat-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for greenseat-forecast.
type Configuration struct {
	Scenarios []Scenario    `yaml:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Scenario is one named set of commute inputs. Input values are kept raw so
// that they pass through the same validation as interactive input.
type Scenario struct {
	Name   string                 `yaml:"name"`
	Active bool                   `yaml:"active"`
	Input  map[string]interface{} `yaml:"input"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// RawInput returns the scenario input keyed by canonical field names. Keys
// are matched case-insensitively because viper lowercases map keys; unknown
// keys are dropped.
func (s Scenario) RawInput() validation.RawInput {
	canonical := make(map[string]string)
	for _, field := range validation.FieldNames() {
		canonical[strings.ToLower(field)] = field
	}

	raw := make(validation.RawInput, len(s.Input))
	for key, value := range s.Input {
		if field, ok := canonical[strings.ToLower(key)]; ok {
			raw[field] = value
		}
	}
	return raw
}

// unknownKeys returns the input keys that do not name a field, sorted.
func (s Scenario) unknownKeys() []string {
	known := make(map[string]bool)
	for _, field := range validation.FieldNames() {
		known[strings.ToLower(field)] = true
	}

	var unknown []string
	for key := range s.Input {
		if !known[strings.ToLower(key)] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Input values themselves are checked when a scenario is
// evaluated.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Scenarios) == 0 {
		return append(warnings, "No scenarios defined")
	}
	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be calculated")
	}

	seen := make(map[string]bool)
	for i, scenario := range c.Scenarios {
		name := scenario.Name
		if strings.TrimSpace(name) == "" {
			warnings = append(warnings, fmt.Sprintf("Scenario #%d has no name", i+1))
			name = fmt.Sprintf("#%d", i+1)
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", name))
		}
		seen[name] = true

		for _, key := range scenario.unknownKeys() {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has unknown input '%s'", name, key))
		}
	}

	return warnings
}
