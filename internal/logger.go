package internal

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is shared by all packages and can be replaced for testing
var Logger = logrus.New()

// SetLogLevel changes level of Logger by name such as "DEBUG" or "info".
func SetLogLevel(level string) error {
	switch strings.ToUpper(level) {
	case "TRACE":
		Logger.SetLevel(logrus.TraceLevel)
	case "DEBUG":
		Logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		Logger.SetLevel(logrus.InfoLevel)
	case "WARN":
		Logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		return fmt.Errorf("Invalid log level: %s", level)
	}

	return nil
}

// SetLogFormat switches Logger between "text" and "json" output.
func SetLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "text":
		Logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("Invalid log format: %s", format)
	}

	return nil
}
