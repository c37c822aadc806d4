package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Bot        BotConfig        `mapstructure:"bot"`
	Storage    StorageConfig    `mapstructure:"storage"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	I18n       I18nConfig       `mapstructure:"i18n"`
}

type BotConfig struct {
	Token         string        `mapstructure:"token"`
	Webhook       WebhookConfig `mapstructure:"webhook"`
	UpdateTimeout int           `mapstructure:"update_timeout"`
}

type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Port    int    `mapstructure:"port"`
}

type StorageConfig struct {
	Type  string      `mapstructure:"type"`
	File  FileStore   `mapstructure:"file"`
	Redis RedisConfig `mapstructure:"redis"`
}

type FileStore struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	DefaultLanguage string   `mapstructure:"default_language"`
	Languages       []string `mapstructure:"languages"`
	Directory       string   `mapstructure:"directory"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variable overrides
	viper.BindEnv("bot.token", "BOT_TOKEN")
	viper.BindEnv("storage.file.path", "WORDLIST_FILE")
	viper.BindEnv("storage.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("storage.redis.db", "REDIS_DB")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Redis address is assembled from host/port when given separately
	if redisHost := viper.GetString("REDIS_HOST"); redisHost != "" {
		redisPort := viper.GetString("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}
		config.Storage.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.UpdateTimeout == 0 {
		cfg.Bot.UpdateTimeout = 60
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "file"
	}
	if cfg.Storage.File.Path == "" {
		cfg.Storage.File.Path = "bot_data.json"
	}
	if cfg.Storage.Redis.Key == "" {
		cfg.Storage.Redis.Key = "wordlist"
	}
	if cfg.I18n.DefaultLanguage == "" {
		cfg.I18n.DefaultLanguage = "en"
	}
	if len(cfg.I18n.Languages) == 0 {
		cfg.I18n.Languages = []string{cfg.I18n.DefaultLanguage}
	}
	if cfg.I18n.Directory == "" {
		cfg.I18n.Directory = "configs/i18n"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Bot.Token == "" {
		return fmt.Errorf("bot token is required")
	}
	switch cfg.Storage.Type {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
	return nil
}
