package role

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config carries the environment-derived settings for the Role resource.
type Config struct {
	// Allowed role types. Defaults to a list containing only DefaultType.
	Types []string `env:"ROLE_TYPES"`

	// Type applied to candidates that omit one.
	DefaultType string `env:"DEFAULT_ROLE_TYPE" env-default:"System"`

	// Additional role names seeded at boot, on top of the built-in
	// Administrator role.
	Seed []string `env:"ROLE_SEED"`

	// How deep permission references are expanded on reads. Zero disables
	// population entirely.
	PopulationMaxDepth int `env:"POPULATION_MAX_DEPTH" env-default:"1"`
}

// LoadConfig reads the Role configuration from the environment.
func LoadConfig() (Config, error) {
	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		return Config{}, fmt.Errorf("failed to read role config: %w", err)
	}
	if len(config.Types) == 0 {
		config.Types = []string{config.DefaultType}
	}
	return config, nil
}
