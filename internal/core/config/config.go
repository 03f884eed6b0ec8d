// Package config provides configuration management for the VaxHub client.
package config

import "github.com/vaxcare/vaxhub/internal/types"

// HubConfig holds configuration for one clinic hub session.
type HubConfig struct {
	DatabaseURL string
	DataDir     string
	VaxCare3    bool
	Flags       types.FeatureFlags
}

// DefaultHubConfig returns configuration with default values.
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		DatabaseURL: "",
		DataDir:     "./data",
		VaxCare3:    false,
		Flags: types.FeatureFlags{
			RprdAndNotLocallyCreated: false,
			DisableDuplicateRsv:      false,
		},
	}
}
