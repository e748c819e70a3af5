package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/selinspect/rodhost"
)

// Config is the on-disk configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Browser  rodhost.Config `yaml:"browser"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Browser:  rodhost.DefaultConfig(),
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
