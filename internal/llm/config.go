package llm

import "fmt"

// Defaults applied by Normalize.
const (
	DefaultModel          = "gpt-3.5-turbo"
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 100
	DefaultTimeoutSeconds = 30
)

// Config holds completion service settings.
type Config struct {
	APIKey         string  `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	BaseURL        string  `yaml:"base_url" envconfig:"OPENAI_BASE_URL"`
	Model          string  `yaml:"model" envconfig:"OPENAI_MODEL"`
	Temperature    float64 `yaml:"temperature" envconfig:"OPENAI_TEMPERATURE"`
	MaxTokens      int64   `yaml:"max_tokens" envconfig:"OPENAI_MAX_TOKENS"`
	TimeoutSeconds int     `yaml:"timeout_seconds" envconfig:"OPENAI_TIMEOUT_SECONDS"`
}

// Normalize validates required fields and fills in defaults.
func (c *Config) Normalize() error {
	if c.APIKey == "" {
		return fmt.Errorf("openai api_key is required")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return nil
}
