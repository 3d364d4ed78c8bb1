package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/askrobots/intakebot/core/config"
	coredatabase "github.com/askrobots/intakebot/core/database"
	"github.com/askrobots/intakebot/internal/llm"
)

// Config aggregates everything the bot process needs: the shared core
// configuration plus the database and completion service sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	OpenAI   llm.Config          `yaml:"openai"`
}

// Load reads configuration from a YAML file with environment overrides.
// Missing required options are fatal here, before anything connects.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := cfg.OpenAI.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}
