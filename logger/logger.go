// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures Log. LOG_LEVEL and LOG_FORMAT in the environment take
// precedence over the configured level and format. Logs go to stderr so that
// stdout carries only the combat transcript.
func Init(level, format string) {
	InitTo(os.Stderr, level, format)
}

// InitTo is Init with an explicit destination.
func InitTo(out io.Writer, level, format string) {
	Log = logrus.New()

	// 1. Level, "info" unless configured.
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = v
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// 2. Formatter: "json" for collection, text otherwise.
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		format = v
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log.SetOutput(out)
}
