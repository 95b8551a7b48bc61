// Package config loads runtime settings from config.yaml and the
// environment. Environment variables win and use underscores where the
// file uses dots, e.g. CANVAS_API_KEY for canvas.api_key.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Canvas    CanvasConfig    `mapstructure:"canvas"`
	AI        AIConfig        `mapstructure:"ai"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CanvasConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type AIConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	BaseURL       string        `mapstructure:"base_url"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	MinInterval   time.Duration `mapstructure:"min_interval"`
	MaxContentLen int           `mapstructure:"max_content_len"`
}

type BatchConfig struct {
	GroupSize  int           `mapstructure:"group_size"`
	GroupDelay time.Duration `mapstructure:"group_delay"`
}

type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerSecond uint `mapstructure:"requests_per_second"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.address", ":5000")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	viper.SetDefault("canvas.base_url", "https://canvas.instructure.com")
	viper.SetDefault("canvas.api_key", "")

	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "claude-sonnet-4-20250514")
	viper.SetDefault("ai.base_url", "https://api.anthropic.com")
	viper.SetDefault("ai.max_tokens", 2048)
	viper.SetDefault("ai.min_interval", "1s")
	viper.SetDefault("ai.max_content_len", 12000)

	viper.SetDefault("batch.group_size", 3)
	viper.SetDefault("batch.group_delay", "5s")

	viper.SetDefault("snapshot.path", "data/snapshot.json")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", false)

	viper.SetDefault("cors.allowed_origins", []string{"*"})

	viper.SetDefault("rate_limit.requests_per_second", 20)
}
