package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Source   SourceConfig   `mapstructure:"source"`
	DB       DBConfig       `mapstructure:"db"`
	Output   OutputConfig   `mapstructure:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

const defaultConfigFile = "./configs/config.yaml"

// Get loads the configuration or terminates the process.
func Get() *Config {
	configFile := defaultConfigFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	config, err := Load(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

// Load reads the optional YAML file, applies defaults and environment overrides
// and validates the result. A missing file is not an error.
func Load(file string) (*Config, error) {

	viper.Reset()
	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		if !isMissingFile(err) {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
		log.Debugf("config file %s not found, using defaults and environment", file)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func setDefaults() {
	sections := []interface{ setDefaults() }{
		SourceConfig{}, LoggerConfig{}, DBConfig{}, OutputConfig{}, MetricsConfig{}, TelegramConfig{},
	}
	for _, section := range sections {
		section.setDefaults()
	}
}

func bindEnvironmentVariables() error {
	var errs []error

	source, db, logger := SourceConfig{}, DBConfig{}, LoggerConfig{}
	output, metrics, telegram := OutputConfig{}, MetricsConfig{}, TelegramConfig{}

	if err := source.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("SourceConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := output.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("OutputConfig: %w", err))
	}

	if err := metrics.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if err := telegram.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("TelegramConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.Source.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SourceConfig: %w", err))
	}

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Output.validate(); err != nil {
		errs = append(errs, fmt.Errorf("OutputConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func bindEnv(bindings map[string]string) error {
	var errs []error
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
