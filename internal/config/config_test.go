package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "RANCH_API_BASE_URL", "RANCH_API_TOKEN", "RANCH_API_TIMEOUT",
		"PRICING_TIMEZONE", "SNAPSHOT_CRON_SCHEDULE", "SNAPSHOT_RANCH_IDS", "SNAPSHOT_AUTO_APPLY",
		"MONGODB_URI", "MONGODB_DB_NAME", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_EXPORT_ID",
		"GOOGLE_SHEET_EXPORT_TAB", "WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_NOTIFY_TO",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, even to "".
	for _, key := range []string{"RANCH_API_BASE_URL", "SNAPSHOT_RANCH_IDS", "SNAPSHOT_CRON_SCHEDULE", "SNAPSHOT_AUTO_APPLY", "RANCH_API_TIMEOUT"} {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "RANCH_API_BASE_URL=https://api.example.test\n" +
		"SNAPSHOT_RANCH_IDS=r1, r2 ,,\n" +
		"SNAPSHOT_CRON_SCHEDULE=0 6 * * *\n" +
		"SNAPSHOT_AUTO_APPLY=true\n" +
		"RANCH_API_TIMEOUT=5s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		for _, key := range []string{"RANCH_API_BASE_URL", "SNAPSHOT_RANCH_IDS", "SNAPSHOT_CRON_SCHEDULE", "SNAPSHOT_AUTO_APPLY", "RANCH_API_TIMEOUT"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.RanchAPI.BaseURL != "https://api.example.test" || cfg.RanchAPI.Timeout != 5*time.Second {
		t.Errorf("ranch api = %+v", cfg.RanchAPI)
	}
	if len(cfg.Snapshots.RanchIDs) != 2 || cfg.Snapshots.RanchIDs[1] != "r2" {
		t.Errorf("ranch ids = %v", cfg.Snapshots.RanchIDs)
	}
	if !cfg.Snapshots.AutoApply || !cfg.Snapshots.Enabled() {
		t.Errorf("snapshots = %+v", cfg.Snapshots)
	}
	if cfg.MongoDB.Enabled() || cfg.Sheets.Enabled() || cfg.WhatsApp.Enabled() {
		t.Error("optional integrations should be disabled by default")
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANCH_API_BASE_URL", "http://localhost:4000")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			RanchAPI: RanchAPIConfig{BaseURL: "http://x", Timeout: time.Second},
			Pricing:  PricingConfig{Timezone: "UTC"},
			MongoDB:  MongoDBConfig{DBName: "ranchprice"},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(*Config){
		"no base url":      func(c *Config) { c.RanchAPI.BaseURL = "" },
		"bad timezone":     func(c *Config) { c.Pricing.Timezone = "Mars/Olympus" },
		"ids without cron": func(c *Config) { c.Snapshots.RanchIDs = []string{"r1"} },
		"half sheets":      func(c *Config) { c.Sheets.CredentialsPath = "/creds.json" },
		"notify no token":  func(c *Config) { c.WhatsApp.NotifyTo = "123"; c.WhatsApp.PhoneNumberID = "1" },
		"zero timeout":     func(c *Config) { c.RanchAPI.Timeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
