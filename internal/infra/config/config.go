package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	NotifierTwilio   = "twilio"
	NotifierTelegram = "telegram"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PlanFile              string
	Timezone              *time.Location
	DatabaseDriver        string
	DatabasePath          string // SQLite file
	DatabaseURL           string // PostgreSQL DSN
	Notifier              string
	TwilioAccountSID      string
	TwilioAuthToken       string
	TwilioPhoneNumber     string
	RecipientPhoneNumber  string
	TelegramToken         string
	RecipientTelegramID   int64
	LogLevel              string
	Environment           string
	CronSpecReminderCheck string
	SkipEmptyReminders    bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.PlanFile = os.Getenv("PLAN_FILE")
	if cfg.PlanFile == "" {
		cfg.PlanFile = "meds.json"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "America/Chicago"
	}
	cfg.Timezone, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = DriverSQLite
	}
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		cfg.DatabasePath = os.Getenv("DATABASE_PATH")
		if cfg.DatabasePath == "" {
			cfg.DatabasePath = "meds.db"
		}
	case DriverPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q: use %q or %q", cfg.DatabaseDriver, DriverSQLite, DriverPostgres)
	}

	cfg.Notifier = strings.ToLower(os.Getenv("NOTIFIER"))
	if cfg.Notifier == "" {
		cfg.Notifier = NotifierTwilio
	}
	switch cfg.Notifier {
	case NotifierTwilio:
		if err := cfg.loadTwilio(); err != nil {
			return nil, err
		}
	case NotifierTelegram:
		if err := cfg.loadTelegram(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid NOTIFIER %q: use %q or %q", cfg.Notifier, NotifierTwilio, NotifierTelegram)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecReminderCheck = os.Getenv("CRON_SPEC_REMINDER_CHECK")
	if cfg.CronSpecReminderCheck == "" {
		cfg.CronSpecReminderCheck = "*/5 * * * *" // Default: every 5 minutes
	}

	if v := os.Getenv("SKIP_EMPTY_REMINDERS"); v != "" {
		cfg.SkipEmptyReminders, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SKIP_EMPTY_REMINDERS: %w", err)
		}
	}

	return cfg, nil
}

func (cfg *AppConfig) loadTwilio() error {
	required := []struct {
		name string
		dst  *string
	}{
		{"TWILIO_ACCOUNT_SID", &cfg.TwilioAccountSID},
		{"TWILIO_AUTH_TOKEN", &cfg.TwilioAuthToken},
		{"TWILIO_PHONE_NUMBER", &cfg.TwilioPhoneNumber},
		{"RECIPIENT_PHONE_NUMBER", &cfg.RecipientPhoneNumber},
	}
	for _, r := range required {
		*r.dst = os.Getenv(r.name)
		if *r.dst == "" {
			return fmt.Errorf("%s is not set", r.name)
		}
	}
	return nil
}

func (cfg *AppConfig) loadTelegram() error {
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	recipientIDStr := os.Getenv("RECIPIENT_TELEGRAM_ID")
	if recipientIDStr == "" {
		return fmt.Errorf("RECIPIENT_TELEGRAM_ID is not set")
	}
	var err error
	cfg.RecipientTelegramID, err = strconv.ParseInt(recipientIDStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid RECIPIENT_TELEGRAM_ID: %w", err)
	}
	return nil
}
