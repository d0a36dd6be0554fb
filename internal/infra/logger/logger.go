// internal/infra/logger/logger.go
package logger

import (
	"os"
	"strings"

	"medication_reminder_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components log through For.
var Log = logrus.New()

// Init applies the configured level and output format to Log.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(formatterFor(cfg.Environment))

	level, ok := levelFrom(cfg.LogLevel)
	Log.SetLevel(level)
	if !ok {
		Log.Warnf("Unknown LOG_LEVEL %q, using %s", cfg.LogLevel, level)
	}

	Log.WithFields(logrus.Fields{
		"level":       Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Debug("Logger configured")
}

// levelFrom parses a LOG_LEVEL value, falling back to info.
func levelFrom(s string) (logrus.Level, bool) {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return level, true
}

// formatterFor emits JSON in deployed environments, where logs are shipped,
// and readable text everywhere else.
func formatterFor(environment string) logrus.Formatter {
	switch environment {
	case "production", "staging":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
