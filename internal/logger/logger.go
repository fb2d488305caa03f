package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/maxaizer/internship-scraper/internal/config"
	log "github.com/sirupsen/logrus"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb          = "db"
	ErrorTypeSourceApi   = "source_api"
	ErrorTypeTelegramApi = "tg_api"
	ErrorTypeExport      = "export"
)

var (
	logFile    *os.File
	lokiCancel func()
)

func Setup(ctx context.Context, cfg config.LoggerConfig) {

	output := io.Writer(os.Stdout)
	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755); err != nil {
			log.Fatalf("Failed to create log directory: %v", err)
		}

		file, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		logFile = file
		output = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(output)

	customFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	}
	log.SetFormatter(customFormatter)

	level := levelFor(cfg)
	log.SetLevel(level)

	addPrometheusHook()

	if cfg.LokiURL != "" {
		// the pusher outlives a canceled run and is flushed by Cleanup
		if err := addLokiHook(context.WithoutCancel(ctx), lokiConfig(cfg), level); err != nil {
			log.Warnf("can't enable loki logging: %v", err)
		}
	}
}

func levelFor(cfg config.LoggerConfig) log.Level {
	switch cfg.Level() {
	case config.LevelInfo:
		return log.InfoLevel
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Cleanup flushes pending loki entries and closes the log file.
func Cleanup() {
	if lokiCancel != nil {
		lokiCancel()
		lokiCancel = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
