// Package config loads per-dataset YAML configuration. Prompt templates and
// output schemas live here as data so one binary serves every benchmark
// (Beer, iTunes, Walmart, DBLP-ACM, cameras, computers, ...).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Dataset is one dataset's configuration.
type Dataset struct {
	Name string `yaml:"name"`

	// Convert stage.
	PreferredOrder []string `yaml:"preferred_order"`
	YearFields     []string `yaml:"year_fields"`
	CleanValues    bool     `yaml:"clean_values"`

	// LLM normalization stage.
	Normalize Normalize `yaml:"normalize"`
}

// Normalize configures the LLM cleanup pass for one dataset.
type Normalize struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
	Workers int    `yaml:"workers"`

	// ExpectedKeys is the output schema: every normalized record carries
	// exactly these keys, in this column order.
	ExpectedKeys []string `yaml:"expected_keys"`
	// KeyMap renames model output keys to schema keys before filling.
	KeyMap map[string]string `yaml:"key_map"`
	// Defaults supplies per-key fill values for keys the model omitted.
	// Keys absent here default to "unknown", or "false" for is_* flags.
	Defaults map[string]string `yaml:"defaults"`

	// Prompt is a text/template body; {{.RecordJSON}} expands to the
	// pretty-printed JSON of the record being normalized.
	Prompt string `yaml:"prompt"`
}

// Load reads and validates a dataset config file, applying defaults.
func Load(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var d Dataset
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("config %s: missing name", path)
	}
	d.applyDefaults()
	if _, err := d.Normalize.ParsedTimeout(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &d, nil
}

func (d *Dataset) applyDefaults() {
	n := &d.Normalize
	if n.Model == "" {
		n.Model = "llama3.1"
	}
	if n.BaseURL == "" {
		if host := os.Getenv("OLLAMA_HOST"); host != "" {
			n.BaseURL = host
		} else {
			n.BaseURL = "http://localhost:11434"
		}
	}
	if n.Timeout == "" {
		n.Timeout = "120s"
	}
	if n.Workers <= 0 {
		n.Workers = 4
	}
}

// ParsedTimeout returns the per-request timeout as a duration.
func (n Normalize) ParsedTimeout() (time.Duration, error) {
	t, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid normalize timeout %q: %w", n.Timeout, err)
	}
	return t, nil
}
