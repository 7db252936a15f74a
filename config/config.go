package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Feed      FeedConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FeedConfig holds the promotion feed configuration. An empty BaseURL
// disables the feed-backed endpoint.
type FeedConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL  string        `mapstructure:"redis_url"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// MatchingConfig holds the cross-retailer matcher thresholds
type MatchingConfig struct {
	MinSavingsPct      int     `mapstructure:"min_savings_pct"`
	MaxResults         int     `mapstructure:"max_results"`
	MinNameSimilarity  float64 `mapstructure:"min_name_similarity"`
	MaxVolumeRatio     float64 `mapstructure:"max_volume_ratio"`
	MaxCountRatio      float64 `mapstructure:"max_count_ratio"`
	Workers            int     `mapstructure:"workers"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFrom(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bespaarwijzer/")
	if path != "" {
		v.SetConfigFile(path)
	}

	// Environment variable settings, e.g. BESPAARWIJZER_SERVER_PORT
	v.SetEnvPrefix("BESPAARWIJZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Feed defaults
	v.SetDefault("feed.base_url", "")
	v.SetDefault("feed.timeout", "30s")
	v.SetDefault("feed.requests_per_second", 2.0)
	v.SetDefault("feed.burst", 5)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "bw:")
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Matching defaults
	v.SetDefault("matching.min_savings_pct", 10)
	v.SetDefault("matching.max_results", 20)
	v.SetDefault("matching.min_name_similarity", 0.5)
	v.SetDefault("matching.max_volume_ratio", 1.5)
	v.SetDefault("matching.max_count_ratio", 2.0)
	v.SetDefault("matching.workers", 4)
	v.SetDefault("matching.enable_debug_logging", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	m := config.Matching
	if m.MinSavingsPct < 0 || m.MaxResults < 0 || m.MinNameSimilarity < 0 ||
		m.MaxVolumeRatio < 0 || m.MaxCountRatio < 0 {
		return fmt.Errorf("matching thresholds must not be negative")
	}
	if m.MinNameSimilarity > 1 {
		return fmt.Errorf("matching.min_name_similarity must be at most 1, got: %v", m.MinNameSimilarity)
	}
	if m.Workers < 1 {
		return fmt.Errorf("matching.workers must be at least 1, got: %d", m.Workers)
	}

	if config.Logging.Format != "console" && config.Logging.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Logging.Format)
	}

	return nil
}

// loadEnvFile loads KEY=VALUE pairs from ./.env without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
