package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Schemas  SchemasConfig  `mapstructure:"schemas"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Security SecurityConfig `mapstructure:"security"`
	API      APIConfig      `mapstructure:"api"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	ReadTimeout      time.Duration `mapstructure:"readTimeout"`
	WriteTimeout     time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdownTimeout"`
	RequestIDHeader  string        `mapstructure:"requestIdHeader"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	AllowedMethods []string `mapstructure:"allowedMethods"`
}

// SchemasConfig controls loading of named field-alias registries that feed
// a lucene.FieldResolver (internal/schema).
type SchemasConfig struct {
	LoadFromFiles bool   `mapstructure:"loadFromFiles"`
	Directory     string `mapstructure:"directory"`
}

// LimitsConfig holds the resource limits applied before and during parsing.
type LimitsConfig struct {
	MaxQueryLength     int             `mapstructure:"maxQueryLength"`
	MaxNodeDepth       int             `mapstructure:"maxNodeDepth"`
	MaxIncludesPerRun  int             `mapstructure:"maxIncludesPerRun"`
	MaxFieldNameLength int             `mapstructure:"maxFieldNameLength"`
	MaxRequestBodySize int64           `mapstructure:"maxRequestBodySize"`
	RequestTimeout     time.Duration   `mapstructure:"requestTimeout"`
	RateLimit          RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requestsPerMinute"`
	RequestsPerHour   int  `mapstructure:"requestsPerHour"`
	Burst             int  `mapstructure:"burst"`
}

// EngineConfig configures how pkg/lucene is driven: the default clause
// operator and the parse cache. IncludeResolveTimeout and UnresolvedIsError
// are loaded and defaulted but no handler reads them: ExpandIncludes runs
// under the request's own context, and unresolved includes/fields are only
// recorded on the ValidationResult, never turned into an error response.
type EngineConfig struct {
	DefaultOperator        string        `mapstructure:"defaultOperator"`
	IncludeResolveTimeout  time.Duration `mapstructure:"includeResolveTimeout"`
	UnresolvedIsError      bool          `mapstructure:"unresolvedIsError"`
	ParseCacheEnabled      bool          `mapstructure:"parseCacheEnabled"`
	ParseCacheSize         int           `mapstructure:"parseCacheSize"`
	ParseCacheTTL          time.Duration `mapstructure:"parseCacheTTL"`
}

// SecurityConfig holds the pre-lex input sanitation configuration.
type SecurityConfig struct {
	AllowedFieldNameChars string     `mapstructure:"allowedFieldNameChars"`
	Auth                  AuthConfig `mapstructure:"auth"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"`
	APIKeys []string `mapstructure:"apiKeys"`
}

// APIConfig holds API configuration.
type APIConfig struct {
	Versions map[string]APIVersionConfig `mapstructure:"versions"`
}

// APIVersionConfig holds configuration for a specific API version.
type APIVersionConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Deprecated bool `mapstructure:"deprecated"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/luceneql/")
		v.AddConfigPath("$HOME/.luceneql/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("LUCENEQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("server.requestIdHeader", "X-Request-ID")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "DELETE"})

	v.SetDefault("schemas.loadFromFiles", false)
	v.SetDefault("schemas.directory", "./schemas")

	v.SetDefault("limits.maxQueryLength", 10000)
	v.SetDefault("limits.maxNodeDepth", 50)
	v.SetDefault("limits.maxIncludesPerRun", 20)
	v.SetDefault("limits.maxFieldNameLength", 255)
	v.SetDefault("limits.maxRequestBodySize", 1048576)
	v.SetDefault("limits.requestTimeout", "30s")
	v.SetDefault("limits.rateLimit.enabled", false)
	v.SetDefault("limits.rateLimit.requestsPerMinute", 100)
	v.SetDefault("limits.rateLimit.requestsPerHour", 5000)
	v.SetDefault("limits.rateLimit.burst", 10)

	v.SetDefault("engine.defaultOperator", "or")
	v.SetDefault("engine.includeResolveTimeout", "5s")
	v.SetDefault("engine.unresolvedIsError", false)
	v.SetDefault("engine.parseCacheEnabled", true)
	v.SetDefault("engine.parseCacheSize", 10000)
	v.SetDefault("engine.parseCacheTTL", "1h")

	v.SetDefault("security.allowedFieldNameChars", "._-")
	v.SetDefault("security.auth.enabled", false)
	v.SetDefault("security.auth.type", "apikey")
	v.SetDefault("security.auth.apiKeys", []string{})

	v.SetDefault("api.versions.v1.enabled", true)
	v.SetDefault("api.versions.v1.deprecated", false)
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be json or console)", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", cfg.Metrics.Port)
		}
		if cfg.Metrics.Path == "" {
			return fmt.Errorf("metrics path cannot be empty when metrics are enabled")
		}
	}

	if cfg.Limits.MaxQueryLength < 0 {
		return fmt.Errorf("maxQueryLength cannot be negative")
	}
	if cfg.Limits.MaxNodeDepth < 1 {
		return fmt.Errorf("maxNodeDepth must be at least 1")
	}

	validOps := map[string]bool{"or": true, "and": true}
	if !validOps[strings.ToLower(cfg.Engine.DefaultOperator)] {
		return fmt.Errorf("invalid engine.defaultOperator: %s (must be or or and)", cfg.Engine.DefaultOperator)
	}

	return nil
}

// GetAddress returns the server address in host:port format.
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetMetricsAddress returns the metrics server address.
func (c *Config) GetMetricsAddress() string {
	return fmt.Sprintf("localhost:%d", c.Metrics.Port)
}

// DefaultOperatorValue resolves EngineConfig.DefaultOperator to a
// lucene.Operator: "and" (any case) gives And, anything else gives Or.
// validate already rejected anything but "or"/"and", so for a Config that
// passed Load the final return is reached only for "or".
func (e EngineConfig) DefaultOperatorValue() lucene.Operator {
	if strings.EqualFold(e.DefaultOperator, "and") {
		return lucene.And
	}
	return lucene.Or
}
