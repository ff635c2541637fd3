package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLogger = logrus.New()

func init() {
	// stdout carries command output.
	defaultLogger.Out = os.Stderr
	defaultLogger.SetLevel(logrus.WarnLevel)
}

// Configure sets the format and level of the default logger. An empty
// format keeps the text formatter.
func Configure(format string, level string) error {
	switch format {
	case "json":
		defaultLogger.Formatter = &logrus.JSONFormatter{}
	case "text", "":
		defaultLogger.Formatter = &logrus.TextFormatter{}
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	if level == "" {
		return nil
	}
	logrusLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	defaultLogger.SetLevel(logrusLevel)
	return nil
}

// SetOutput redirects the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.Out = w
}

// Default is the default logrus logger
func Default() *logrus.Entry { return defaultLogger.WithField("pid", os.Getpid()) }
