package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/vaxcare/vaxhub/internal/types"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*HubConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultHubConfig
	v.SetDefault("hub.database_url", "")
	v.SetDefault("hub.data_dir", "./data")
	v.SetDefault("hub.vaxcare3", false)
	v.SetDefault("flags.rprd_and_not_locally_created", false)
	v.SetDefault("flags.disable_duplicate_rsv", false)

	// Bind environment variables with VAXHUB_ prefix
	v.SetEnvPrefix("VAXHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &HubConfig{
		DatabaseURL: v.GetString("hub.database_url"),
		DataDir:     v.GetString("hub.data_dir"),
		VaxCare3:    v.GetBool("hub.vaxcare3"),
		Flags: types.FeatureFlags{
			RprdAndNotLocallyCreated: v.GetBool("flags.rprd_and_not_locally_created"),
			DisableDuplicateRsv:      v.GetBool("flags.disable_duplicate_rsv"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks data dir presence and database URL scheme.
func validateConfig(cfg *HubConfig) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if cfg.DatabaseURL != "" &&
		!strings.HasPrefix(cfg.DatabaseURL, "sqlite://") &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgres://") {
		return fmt.Errorf("database_url must use sqlite:// or postgres:// scheme, got %q", cfg.DatabaseURL)
	}
	return nil
}
