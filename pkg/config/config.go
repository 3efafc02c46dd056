// Package config loads the application configuration from yaml with
// environment-variable overrides, via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/openagora/agora/pkg/docstore/redis"
	"github.com/openagora/agora/pkg/repository"
)

// AppConfig is the top-level application configuration.
type AppConfig struct {
	App        App        `mapstructure:"app"`
	Redis      Redis      `mapstructure:"redis"`
	Pagination Pagination `mapstructure:"pagination"`
}

// App holds process-level settings.
type App struct {
	Name      string `mapstructure:"name"`
	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"` // "text" or "json"
}

// Redis holds connection settings for the redis-backed document store.
type Redis struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Database int32  `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Tracing  bool   `mapstructure:"tracing"`
}

// Pagination bounds the page sizes accepted by the listing operations.
type Pagination struct {
	TopicPageSize     int `mapstructure:"topicPageSize"`
	MaxTopicPageSize  int `mapstructure:"maxTopicPageSize"`
	LatestTopicsLimit int `mapstructure:"latestTopicsLimit"`
	MaxLatestTopics   int `mapstructure:"maxLatestTopics"`
	CommunityPageSize int `mapstructure:"communityPageSize"`
	MaxCommunityLimit int `mapstructure:"maxCommunityLimit"`
}

// Load reads <name>.yaml from configPath, applies AGORA_* environment
// overrides and returns the parsed configuration.
func Load(configPath, name string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix("agora")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, defaults + env carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "agora")
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.logFormat", "text")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.tracing", false)

	v.SetDefault("pagination.topicPageSize", 20)
	v.SetDefault("pagination.maxTopicPageSize", 100)
	v.SetDefault("pagination.latestTopicsLimit", 10)
	v.SetDefault("pagination.maxLatestTopics", 50)
	v.SetDefault("pagination.communityPageSize", 20)
	v.SetDefault("pagination.maxCommunityLimit", 100)
}

// RepositoryOptions adapts the pagination settings to the repository
// constructor.
func (c *AppConfig) RepositoryOptions() repository.Options {
	return repository.Options{
		TopicPageSize:     c.Pagination.TopicPageSize,
		MaxTopicPageSize:  c.Pagination.MaxTopicPageSize,
		LatestTopicsLimit: c.Pagination.LatestTopicsLimit,
		MaxLatestTopics:   c.Pagination.MaxLatestTopics,
		CommunityPageSize: c.Pagination.CommunityPageSize,
		MaxCommunityLimit: c.Pagination.MaxCommunityLimit,
	}
}

// RedisConfig adapts the loaded settings to the redis store constructor.
func (c *AppConfig) RedisConfig() *redis.Config {
	return &redis.Config{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Database: c.Redis.Database,
		Username: c.Redis.Username,
		Password: c.Redis.Password,
		Tracing:  c.Redis.Tracing,
	}
}
