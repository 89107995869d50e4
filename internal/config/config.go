package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends accepted by storage.type.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds the complete application configuration
type Config struct {
	Timezone string        `mapstructure:"timezone"`
	Locale   string        `mapstructure:"locale"`
	Group    string        `mapstructure:"group"`
	User     string        `mapstructure:"user"`
	Storage  StorageConfig `mapstructure:"storage"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Names    NamesConfig   `mapstructure:"names"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

// RedisConfig defines the Redis connection used when storage.type is redis
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	Prefix       string `mapstructure:"prefix"`
	PoolSize     int    `mapstructure:"pool_size"`
	DialTimeout  string `mapstructure:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NamesConfig maps ids to display names for reports. Keys are matched
// lowercased, as viper stores them.
type NamesConfig struct {
	Users    map[string]string `mapstructure:"users"`
	Roles    map[string]string `mapstructure:"roles"`
	Channels map[string]string `mapstructure:"channels"`
}

// MetricsConfig defines the optional prometheus listener
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from an optional file, the environment
// (ATTEND_ prefix) and a .env file in the working directory.
// An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	// Variables already set in the process win over .env.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ATTEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "America/Lima")
	v.SetDefault("locale", "es-PE")
	v.SetDefault("group", "default")
	v.SetDefault("user", os.Getenv("USER"))

	v.SetDefault("storage.type", StorageSQLite)
	v.SetDefault("storage.path", defaultDBPath())

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "attend")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.addr", "")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".attend", "attend.db")
	}
	return filepath.Join(home, ".attend", "attend.db")
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// validate validates the configuration
func validate(cfg *Config) error {
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	cfg.Storage.Type = strings.ToLower(cfg.Storage.Type)
	switch cfg.Storage.Type {
	case StorageSQLite:
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage path is required")
		}
		cfg.Storage.Path = expandHome(cfg.Storage.Path)
	case StorageRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required")
		}
		for name, d := range map[string]string{
			"dial_timeout":  cfg.Redis.DialTimeout,
			"read_timeout":  cfg.Redis.ReadTimeout,
			"write_timeout": cfg.Redis.WriteTimeout,
		} {
			if _, err := time.ParseDuration(d); err != nil {
				return fmt.Errorf("invalid redis %s: %w", name, err)
			}
		}
	default:
		return fmt.Errorf("unknown storage type: %q", cfg.Storage.Type)
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("unknown log level: %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Logging.Format)
	}

	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
