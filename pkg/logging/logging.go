package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger returns a logger writing human-readable lines to stderr.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// SilentLogger returns a logger that discards everything; used in tests.
func SilentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
