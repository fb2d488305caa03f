package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// MaxPages caps pagination for a single run.
	MaxPages = 50
	// MaxConsecutiveOld is the run length of too-old items after which the window is considered covered.
	MaxConsecutiveOld = 20
	// CanonicalURLBase is used for listings that carry no public url.
	CanonicalURLBase = "https://unstop.com/internships/"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type SourceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	PerPage             int           `mapstructure:"per_page" validate:"gte=1,lte=500"`
	HoursLookback       int           `mapstructure:"hours_lookback" validate:"gte=1"`
	RequestDelaySeconds float64       `mapstructure:"request_delay_seconds" validate:"gte=0"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent           string        `mapstructure:"user_agent"`
	FetchRetries        int           `mapstructure:"fetch_retries" validate:"gte=0,lte=10"`
	FetchRetryDelay     time.Duration `mapstructure:"fetch_retry_delay" validate:"gte=0"`
}

func (config SourceConfig) Lookback() time.Duration {
	return time.Duration(config.HoursLookback) * time.Hour
}

func (config SourceConfig) RequestDelay() time.Duration {
	return time.Duration(config.RequestDelaySeconds * float64(time.Second))
}

func (config SourceConfig) validate() error {
	return validator.New().Struct(config)
}

func (config SourceConfig) setDefaults() {
	viper.SetDefault("source.base_url", "")
	viper.SetDefault("source.per_page", 20)
	viper.SetDefault("source.hours_lookback", 24)
	viper.SetDefault("source.request_delay_seconds", 2.0)
	viper.SetDefault("source.timeout", 30*time.Second)
	viper.SetDefault("source.user_agent", defaultUserAgent)
	viper.SetDefault("source.fetch_retries", 2)
	viper.SetDefault("source.fetch_retry_delay", 5*time.Second)
}

func (config SourceConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"source.base_url":              "API_BASE_URL",
		"source.per_page":              "API_PER_PAGE",
		"source.hours_lookback":        "HOURS_LOOKBACK",
		"source.request_delay_seconds": "REQUEST_DELAY_SECONDS",
		"source.timeout":               "REQUEST_TIMEOUT",
		"source.user_agent":            "USER_AGENT",
		"source.fetch_retries":         "FETCH_RETRIES",
		"source.fetch_retry_delay":     "FETCH_RETRY_DELAY",
	})
}
