package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type OutputConfig struct {
	WebJSONPath string `mapstructure:"web_json_path"`
	BackupDir   string `mapstructure:"backup_dir"`
	DigestPath  string `mapstructure:"digest_path"`
}

func (config OutputConfig) validate() error {
	var errs []error

	if config.WebJSONPath == "" {
		errs = append(errs, fmt.Errorf("missing variable: web_json_path"))
	}
	if config.BackupDir == "" {
		errs = append(errs, fmt.Errorf("missing variable: backup_dir"))
	}

	return errors.Join(errs...)
}

func (config OutputConfig) setDefaults() {
	viper.SetDefault("output.web_json_path", "docs/data/internships.json")
	viper.SetDefault("output.backup_dir", "data/internships")
	viper.SetDefault("output.digest_path", "digest_output.txt")
}

func (config OutputConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"output.web_json_path": "WEB_JSON_PATH",
		"output.backup_dir":    "BACKUP_DIR",
		"output.digest_path":   "DIGEST_PATH",
	})
}
