package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config holds file-based defaults for the CLI flags. Flags given on
// the command line win over the file.
type config struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Engine  string `yaml:"engine"`
	Charset string `yaml:"charset"`
}

// loadConfig reads a YAML config file. A missing path returns an empty
// config.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// apply fills unset flag values from the config.
func (c *config) apply() {
	if fromDialect == "" {
		fromDialect = c.From
	}
	if toDialect == "" {
		toDialect = c.To
	}
	if engine == "" {
		engine = c.Engine
	}
	if charset == "" {
		charset = c.Charset
	}
}
