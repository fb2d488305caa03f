package config

import "github.com/spf13/viper"

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

func (config TelegramConfig) Enabled() bool {
	return config.Token != "" && config.ChatID != 0
}

func (config TelegramConfig) setDefaults() {
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.chat_id", 0)
}

func (config TelegramConfig) bindEnvironmentVariables() error {
	return bindEnv(map[string]string{
		"telegram.token":   "TELEGRAM_TOKEN",
		"telegram.chat_id": "TELEGRAM_CHAT_ID",
	})
}
