package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config file and from
// environment variables with the FEEDSIEVE_ prefix. Environment
// variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("FEEDSIEVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine when everything comes from the
		// environment; any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags plus the
// cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if len(cfg.EnabledEndpoints()) == 0 {
		return errors.New("config validation failed: no enabled LLM endpoints")
	}

	return nil
}

// EnabledEndpoints returns the endpoints the classification client may
// rotate across, in configuration order.
func (c *Config) EnabledEndpoints() []LLMEndpointConfig {
	enabled := make([]LLMEndpointConfig, 0, len(c.LLM.Endpoints))
	for _, endpoint := range c.LLM.Endpoints {
		if endpoint.Enabled {
			enabled = append(enabled, endpoint)
		}
	}
	return enabled
}

// setDefaults registers default values. Registering every key also
// makes it visible to AutomaticEnv, so nested settings can be supplied
// as FEEDSIEVE_SECTION_KEY variables.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.webhook_secret", "")

	v.SetDefault("database.url", "")

	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.process_interval_seconds", 300)
	v.SetDefault("queue.purge_after_days", 7)

	v.SetDefault("readwise.token", "")
	v.SetDefault("readwise.base_url", "https://readwise.io/api/v3")
}
