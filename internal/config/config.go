package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	Logger    Logger    `mapstructure:"logger"`
	Providers Providers `mapstructure:"providers"`
	Prices    Prices    `mapstructure:"prices"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Providers holds the configuration for the external market-data APIs.
type Providers struct {
	TwelveDataApiKey  string `mapstructure:"twelvedata_api_key"`
	TwelveDataBaseURL string `mapstructure:"twelvedata_base_url"`
	CoinGeckoBaseURL  string `mapstructure:"coingecko_base_url"`
}

// Prices holds the configuration for the price refresh coordinator.
type Prices struct {
	StalenessMinutes int     `mapstructure:"staleness_minutes"`
	RateLimit        float64 `mapstructure:"rate_limit"`
	RateLimitBurst   int     `mapstructure:"rate_limit_burst"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "journal.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("providers.twelvedata_api_key", "")
	viper.SetDefault("providers.twelvedata_base_url", "https://api.twelvedata.com")
	viper.SetDefault("providers.coingecko_base_url", "https://api.coingecko.com")
	viper.SetDefault("prices.staleness_minutes", 5)
	viper.SetDefault("prices.rate_limit", 10) // provider calls per second
	viper.SetDefault("prices.rate_limit_burst", 1)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
