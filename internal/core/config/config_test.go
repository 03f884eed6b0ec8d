package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("VAXHUB_HUB_DATABASE_URL")
	os.Unsetenv("VAXHUB_HUB_DATA_DIR")
	os.Unsetenv("VAXHUB_HUB_VAXCARE3")
	os.Unsetenv("VAXHUB_FLAGS_DISABLE_DUPLICATE_RSV")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty default", cfg.DatabaseURL)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "./data")
	}
	if cfg.VaxCare3 {
		t.Error("VaxCare3 = true, want false default")
	}
	if cfg.Flags.RprdAndNotLocallyCreated || cfg.Flags.DisableDuplicateRsv {
		t.Errorf("Flags = %+v, want all off by default", cfg.Flags)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	os.Setenv("VAXHUB_HUB_DATABASE_URL", "sqlite:///tmp/vaxhub.db")
	os.Setenv("VAXHUB_HUB_VAXCARE3", "true")
	os.Setenv("VAXHUB_FLAGS_DISABLE_DUPLICATE_RSV", "true")
	defer os.Unsetenv("VAXHUB_HUB_DATABASE_URL")
	defer os.Unsetenv("VAXHUB_HUB_VAXCARE3")
	defer os.Unsetenv("VAXHUB_FLAGS_DISABLE_DUPLICATE_RSV")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DatabaseURL != "sqlite:///tmp/vaxhub.db" {
		t.Errorf("DatabaseURL = %q, want env override", cfg.DatabaseURL)
	}
	if !cfg.VaxCare3 {
		t.Error("VaxCare3 = false, want env override true")
	}
	if !cfg.Flags.DisableDuplicateRsv {
		t.Error("DisableDuplicateRsv = false, want env override true")
	}
}

func TestLoadConfig_File(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "vaxhub-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	configContent := `hub:
  database_url: "postgres://localhost/vaxhub"
  data_dir: "/var/lib/vaxhub"
flags:
  rprd_and_not_locally_created: true
`
	if _, err := tmpfile.Write([]byte(configContent)); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	cfg, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/vaxhub" {
		t.Errorf("DatabaseURL = %q, want file value", cfg.DatabaseURL)
	}
	if cfg.DataDir != "/var/lib/vaxhub" {
		t.Errorf("DataDir = %q, want file value", cfg.DataDir)
	}
	if !cfg.Flags.RprdAndNotLocallyCreated {
		t.Error("RprdAndNotLocallyCreated = false, want file value true")
	}
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "vaxhub-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte("hub:\n  data_dir: \"/from-file\"\n")); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	os.Setenv("VAXHUB_HUB_DATA_DIR", "/from-env")
	defer os.Unsetenv("VAXHUB_HUB_DATA_DIR")

	cfg, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DataDir != "/from-env" {
		t.Errorf("DataDir = %q, want environment to win over file", cfg.DataDir)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/vaxhub.yaml")
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     HubConfig
		wantErr bool
	}{
		{"defaults are valid", *DefaultHubConfig(), false},
		{"sqlite url", HubConfig{DataDir: "./data", DatabaseURL: "sqlite:///tmp/x.db"}, false},
		{"postgres url", HubConfig{DataDir: "./data", DatabaseURL: "postgres://localhost/x"}, false},
		{"unsupported scheme", HubConfig{DataDir: "./data", DatabaseURL: "mysql://localhost/x"}, true},
		{"empty data dir", HubConfig{DataDir: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
