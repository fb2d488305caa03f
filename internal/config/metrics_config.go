package config

import "github.com/spf13/viper"

type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	JobName        string `mapstructure:"job_name"`
}

func (config MetricsConfig) setDefaults() {
	viper.SetDefault("metrics.pushgateway_url", "")
	viper.SetDefault("metrics.job_name", "internship_scraper")
}

func (config MetricsConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"metrics.pushgateway_url": "PUSHGATEWAY_URL",
		"metrics.job_name":        "METRICS_JOB_NAME",
	})
}
