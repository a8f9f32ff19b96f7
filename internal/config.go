package internal

import (
	"fmt"

	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/jobdeck/jobdeck_server/internal/realtime"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Accounts account.Config  `mapstructure:"accounts"`
	Realtime realtime.Config `mapstructure:"realtime"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile("files/config.yaml")

	// Try to read the config and provide more detailed error information
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	return &config, nil
}
