// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance. The environment is
// taken from the ENVIRONMENT variable.
func NewLogger(logLevel string) *logrus.Logger {
	return NewEnvironmentLogger(logLevel, os.Getenv("ENVIRONMENT"))
}

// NewEnvironmentLogger creates a logger for the given environment name.
func NewEnvironmentLogger(logLevel, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// JSON in production, colored text elsewhere
	if environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}

// Component returns an entry tagged with the component name.
func Component(baseLogger *logrus.Logger, name string) *logrus.Entry {
	return baseLogger.WithField("component", name)
}
