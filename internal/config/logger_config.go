package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type logLevel string

const (
	LevelInfo    logLevel = "INFO"
	LevelDebug   logLevel = "DEBUG"
	LevelWarning logLevel = "WARNING"
	LevelError   logLevel = "ERROR"
	LevelFatal   logLevel = "FATAL"
)

type LoggerConfig struct {
	LogLevel     logLevel `mapstructure:"log_level"`
	AppName      string   `mapstructure:"app_name"`
	LokiURL      string   `mapstructure:"loki_url"`
	LokiUser     string   `mapstructure:"loki_user"`
	LokiPassword string   `mapstructure:"loki_password"`
	OutputFile   string   `mapstructure:"output_file"`
}

// Level returns the configured level upper-cased, so "debug" and "DEBUG" are equivalent.
func (config LoggerConfig) Level() logLevel {
	level := logLevel(strings.ToUpper(strings.TrimSpace(string(config.LogLevel))))
	if level == "WARN" {
		return LevelWarning
	}
	return level
}

func (config LoggerConfig) validate() error {
	if config.LogLevel == "" {
		return fmt.Errorf("missing variable: log_level")
	}
	return nil
}

func (config LoggerConfig) setDefaults() {
	viper.SetDefault("logger.log_level", string(LevelInfo))
	viper.SetDefault("logger.app_name", "internship-scraper")
	viper.SetDefault("logger.output_file", "logs/scraper.log")
}

func (config LoggerConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"logger.loki_url":      "LOKI_URL",
		"logger.loki_user":     "LOKI_USER",
		"logger.loki_password": "LOKI_PASSWORD",
		"logger.app_name":      "APP_NAME",
		"logger.output_file":   "LOG_FILE",
		"logger.log_level":     "LOG_LEVEL",
	})
}
