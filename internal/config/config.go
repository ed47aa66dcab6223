package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Notify  NotifyConfig
	Jobs    JobsConfig
	Sheets  SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// NotifyConfig contains credentials and options for the notification gateway.
type NotifyConfig struct {
	BaseURL string
	Token   string
	Sender  string
}

// JobsConfig holds scheduler-related settings.
type JobsConfig struct {
	ExpiryCronSchedule string
	ExportCronSchedule string
	Timezone           string
}

// SheetsConfig contains configuration for the optional spreadsheet export.
// The export job is disabled when either field is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "bossfarm"),
		},
		Notify: NotifyConfig{
			BaseURL: os.Getenv("NOTIFY_BASE_URL"),
			Token:   os.Getenv("NOTIFY_TOKEN"),
			Sender:  getenvWithDefault("NOTIFY_SENDER", "Boss Farm Tracker"),
		},
		Jobs: JobsConfig{
			ExpiryCronSchedule: getenvWithDefault("EXPIRY_CRON_SCHEDULE", "0 8 * * *"),
			ExportCronSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:           getenvWithDefault("TIMEZONE", "UTC"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
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

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Notify.BaseURL == "" {
		return errors.New("NOTIFY_BASE_URL must be provided")
	}

	if c.Notify.Token == "" {
		return errors.New("NOTIFY_TOKEN must be provided")
	}

	if c.Jobs.ExpiryCronSchedule == "" {
		return errors.New("EXPIRY_CRON_SCHEDULE must be provided")
	}

	if c.Jobs.ExportCronSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}

	if c.Jobs.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
