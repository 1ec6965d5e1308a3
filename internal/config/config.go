package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Name                   string `mapstructure:"APP_NAME"`
	Env                    string `mapstructure:"APP_ENV"`
	Debug                  bool   `mapstructure:"DEBUG_MODE"`
	Host                   string `mapstructure:"HOST"`
	Port                   string `mapstructure:"PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// MongoConfig holds configuration for the document database
type MongoConfig struct {
	URI                   string `mapstructure:"MONGO_URI"`
	Database              string `mapstructure:"MONGO_DB"`
	ConnectTimeoutSeconds int    `mapstructure:"MONGO_CONNECT_TIMEOUT_SECONDS"`
}

// RedisConfig holds configuration for the optional Redis cache
type RedisConfig struct {
	Enabled      bool   `mapstructure:"REDIS_ENABLED"`
	Host         string `mapstructure:"REDIS_HOST"`
	Port         string `mapstructure:"REDIS_PORT"`
	Password     string `mapstructure:"REDIS_PASSWORD"`
	DB           int    `mapstructure:"REDIS_DB"`
	MaxRetries   int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize     int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConns int    `mapstructure:"REDIS_MIN_IDLE_CONNS"`
	CacheTTL     int    `mapstructure:"REDIS_CACHE_TTL_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	LogCommands      bool    `mapstructure:"LOG_COMMANDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// CORSConfig holds configuration for cross-origin requests
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// RateLimitConfig holds configuration for the HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST_CAPACITY"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	// Set defaults first
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	// Manually populate config from viper
	config.App.Name = viper.GetString("APP_NAME")
	config.App.Env = viper.GetString("APP_ENV")
	config.App.Debug = viper.GetBool("DEBUG_MODE")
	config.App.Host = viper.GetString("HOST")
	config.App.Port = viper.GetString("PORT")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Mongo.URI = viper.GetString("MONGO_URI")
	config.Mongo.Database = viper.GetString("MONGO_DB")
	config.Mongo.ConnectTimeoutSeconds = viper.GetInt("MONGO_CONNECT_TIMEOUT_SECONDS")

	config.Redis.Enabled = viper.GetBool("REDIS_ENABLED")
	config.Redis.Host = viper.GetString("REDIS_HOST")
	config.Redis.Port = viper.GetString("REDIS_PORT")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.MaxRetries = viper.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = viper.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConns = viper.GetInt("REDIS_MIN_IDLE_CONNS")
	config.Redis.CacheTTL = viper.GetInt("REDIS_CACHE_TTL_SECONDS")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = viper.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.LogCommands = viper.GetBool("LOG_COMMANDS")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	config.CORS.AllowedOrigins = splitAndTrim(viper.GetString("CORS_ALLOWED_ORIGINS"))

	config.RateLimit.Enabled = viper.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = viper.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	config.RateLimit.BurstCapacity = viper.GetInt("RATE_LIMIT_BURST_CAPACITY")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "first-steps")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DEBUG_MODE", true)
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "userdb")
	viper.SetDefault("MONGO_CONNECT_TIMEOUT_SECONDS", 10)

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_MAX_RETRIES", 3)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	viper.SetDefault("REDIS_CACHE_TTL_SECONDS", 300)

	// Logger defaults
	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
		viper.SetDefault("LOG_COMMANDS", false)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
		viper.SetDefault("LOG_COMMANDS", true)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	viper.SetDefault("SERVICE_NAME", "mongo-user-service")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST_CAPACITY", 20)
}

// Validate checks that the configuration is usable before any dependency
// is wired from it.
func (c *Config) Validate() error {
	if c.App.Host == "" {
		return fmt.Errorf("HOST must not be empty")
	}
	if c.App.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.App.ShutdownTimeoutSeconds)
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI must not be empty")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DB must not be empty")
	}
	if c.Mongo.ConnectTimeoutSeconds <= 0 {
		return fmt.Errorf("MONGO_CONNECT_TIMEOUT_SECONDS must be positive, got %d", c.Mongo.ConnectTimeoutSeconds)
	}

	if c.Redis.Enabled {
		if c.Redis.Host == "" || c.Redis.Port == "" {
			return fmt.Errorf("REDIS_HOST and REDIS_PORT must not be empty when Redis is enabled")
		}
		if c.Redis.CacheTTL <= 0 {
			return fmt.Errorf("REDIS_CACHE_TTL_SECONDS must be positive, got %d", c.Redis.CacheTTL)
		}
	}

	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			return fmt.Errorf("rate limiting requires Redis to be enabled")
		}
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND must be positive, got %f", c.RateLimit.RequestsPerSecond)
		}
		if c.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("RATE_LIMIT_BURST_CAPACITY must be positive, got %d", c.RateLimit.BurstCapacity)
		}
	}

	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.Logger.Level)
	}

	return nil
}

// Address returns the HTTP bind address
func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
