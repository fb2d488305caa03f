package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Path string `mapstructure:"path"`
}

func (config DBConfig) validate() error {
	if config.Path == "" {
		return fmt.Errorf("missing variable: db path")
	}
	return nil
}

func (config DBConfig) setDefaults() {
	viper.SetDefault("db.path", "data/internships.db")
}

func (config DBConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("db.path", "DB_PATH")
}
