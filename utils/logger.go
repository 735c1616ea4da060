package utils

import (
	"os"

	"cacc/config"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger. Request access logs go through Fiber's logger middleware.
var Logger = logrus.New()

// ConfigureLogger applies LOG_LEVEL and DEBUG to Logger
func ConfigureLogger(cfg *config.Config) {
	Logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		Logger.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, falling back to info")
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if cfg.Debug {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	}
}
