package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// config is the CLI's layered configuration: built-in defaults, then an
// optional YAML file, then environment variables, then flags. Later
// layers win.
type config struct {
	AppID   uint32        `yaml:"app_id" env:"STEAMCL_APP_ID"`
	LibPath string        `yaml:"lib_path" env:"STEAMCL_LIB_PATH"`
	Fake    bool          `yaml:"fake" env:"STEAMCL_FAKE"`
	WebKey  string        `yaml:"web_api_key" env:"STEAMCL_WEB_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"STEAMCL_TIMEOUT"`
}

func defaultConfig() config {
	return config{
		AppID:   480,
		Timeout: 10 * time.Second,
	}
}

// loadConfig layers the YAML file (when present) and the environment
// over the defaults. Flag values are applied by the caller, which knows
// which flags were actually set.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
