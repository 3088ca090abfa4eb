package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	RanchAPI  RanchAPIConfig
	Pricing   PricingConfig
	Snapshots SnapshotConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// RanchAPIConfig points at the ranch backend that owns ranch and calf data.
type RanchAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// PricingConfig controls how reference dates are derived.
type PricingConfig struct {
	Timezone string
}

// SnapshotConfig holds scheduler-related settings.
type SnapshotConfig struct {
	CronSchedule string
	RanchIDs     []string
	AutoApply    bool
}

// Enabled reports whether scheduled snapshots have anything to do.
func (s SnapshotConfig) Enabled() bool {
	return s.CronSchedule != "" && len(s.RanchIDs) > 0
}

// MongoDBConfig holds settings for MongoDB. Empty URI disables run history.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether run history should be recorded.
func (m MongoDBConfig) Enabled() bool {
	return m.URI != ""
}

// SheetsConfig contains configuration required to export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SheetName       string
}

// Enabled reports whether spreadsheet export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for batch notifications through the
// Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	NotifyTo      string
}

// Enabled reports whether notifications can be sent.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.NotifyTo != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("RANCH_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RANCH_API_TIMEOUT: %w", err)
	}

	autoApply, err := strconv.ParseBool(getenvWithDefault("SNAPSHOT_AUTO_APPLY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_AUTO_APPLY: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		RanchAPI: RanchAPIConfig{
			BaseURL: os.Getenv("RANCH_API_BASE_URL"),
			Token:   os.Getenv("RANCH_API_TOKEN"),
			Timeout: timeout,
		},
		Pricing: PricingConfig{
			Timezone: getenvWithDefault("PRICING_TIMEZONE", "America/Chicago"),
		},
		Snapshots: SnapshotConfig{
			CronSchedule: os.Getenv("SNAPSHOT_CRON_SCHEDULE"),
			RanchIDs:     splitList(os.Getenv("SNAPSHOT_RANCH_IDS")),
			AutoApply:    autoApply,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ranchprice"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
			SheetName:       getenvWithDefault("GOOGLE_SHEET_EXPORT_TAB", "Suggestions"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			NotifyTo:      os.Getenv("WHATSAPP_NOTIFY_TO"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.RanchAPI.BaseURL == "" {
		return errors.New("RANCH_API_BASE_URL must be provided")
	}

	if c.RanchAPI.Timeout <= 0 {
		return errors.New("RANCH_API_TIMEOUT must be positive")
	}

	if _, err := time.LoadLocation(c.Pricing.Timezone); err != nil {
		return fmt.Errorf("PRICING_TIMEZONE %q is invalid: %w", c.Pricing.Timezone, err)
	}

	if len(c.Snapshots.RanchIDs) > 0 && c.Snapshots.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided when SNAPSHOT_RANCH_IDS is set")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be provided together")
	}

	if c.WhatsApp.NotifyTo != "" {
		switch {
		case c.WhatsApp.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided when WHATSAPP_NOTIFY_TO is set")
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when WHATSAPP_NOTIFY_TO is set")
		}
	}

	return nil
}

// Location returns the pricing timezone, falling back to UTC.
func (p PricingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
