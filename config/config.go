package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Ingest        IngestConfig
	Query         QueryConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	TLS                struct {
		Enabled  bool
		CertFile string
		KeyFile  string
	}
}

// IngestConfig holds limits applied to submission endpoints
type IngestConfig struct {
	MaxBodyBytes   int64
	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int
}

// QueryConfig holds pagination bounds for reading stored logs
type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	LogFile        string // empty logs to stdout
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
	LogCompress    bool
	MetricsEnabled bool
}

// Option customizes where New reads configuration from
type Option func(*loader)

// WithEnvFile loads a dotenv file before reading the environment
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFiles = append(l.envFiles, path)
	}
}

// WithConfigFile reads a YAML file of KEY: value pairs used as defaults
// beneath the environment
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.configFile = path
	}
}

// loader resolves keys from the environment first, then the YAML file
type loader struct {
	envFiles   []string
	configFile string
	file       map[string]string
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context, opts ...Option) (*Config, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if len(l.envFiles) == 0 {
		l.envFiles = []string{".env"}
	}

	// Missing dotenv files are fine; existing variables are never overridden.
	for _, f := range l.envFiles {
		_ = godotenv.Load(f)
	}

	if l.configFile == "" {
		l.configFile = os.Getenv("CONFIG_FILE")
	}
	if l.configFile != "" {
		values, err := readConfigFile(l.configFile)
		if err != nil {
			return nil, err
		}
		l.file = values
	}

	cfg := &Config{
		Environment: l.getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:               l.getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               l.getPort(),
			ReadTimeout:        l.getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:       l.getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:    l.getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSAllowedOrigins: l.getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*", "https://*"}),
			TLS: struct {
				Enabled  bool
				CertFile string
				KeyFile  string
			}{
				Enabled:  l.getEnvAsBool("TLS_ENABLED", false),
				CertFile: l.getEnv("TLS_CERT_FILE", "certs/cert.pem"),
				KeyFile:  l.getEnv("TLS_KEY_FILE", "certs/key.pem"),
			},
		},
		Ingest: IngestConfig{
			MaxBodyBytes:   int64(l.getEnvAsInt("INGEST_MAX_BODY_BYTES", 10<<20)),
			RateLimitRPS:   l.getEnvAsFloat("INGEST_RATE_LIMIT_RPS", 0),
			RateLimitBurst: l.getEnvAsInt("INGEST_RATE_LIMIT_BURST", 20),
		},
		Query: QueryConfig{
			DefaultLimit: l.getEnvAsInt("QUERY_DEFAULT_LIMIT", 100),
			MaxLimit:     l.getEnvAsInt("QUERY_MAX_LIMIT", 1000),
		},
		Observability: ObservabilityConfig{
			LogLevel:       l.getEnv("LOG_LEVEL", "info"),
			LogFormat:      l.getEnv("LOG_FORMAT", "json"),
			LogFile:        l.getEnv("LOG_FILE", ""),
			LogMaxSizeMB:   l.getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			LogMaxBackups:  l.getEnvAsInt("LOG_MAX_BACKUPS", 3),
			LogMaxAgeDays:  l.getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
			LogCompress:    l.getEnvAsBool("LOG_COMPRESS", false),
			MetricsEnabled: l.getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		return fmt.Errorf("TLS enabled but cert or key file is missing")
	}

	if c.Ingest.MaxBodyBytes <= 0 {
		return fmt.Errorf("ingest max body bytes must be positive")
	}
	if c.Ingest.RateLimitRPS < 0 || c.Ingest.RateLimitBurst < 0 {
		return fmt.Errorf("ingest rate limit must not be negative")
	}

	if c.Query.DefaultLimit <= 0 || c.Query.MaxLimit <= 0 {
		return fmt.Errorf("query limits must be positive")
	}
	if c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("query default limit %d exceeds max limit %d", c.Query.DefaultLimit, c.Query.MaxLimit)
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// readConfigFile parses a flat YAML mapping. Scalar values of any type are
// kept as their string form so they parse like environment variables.
func readConfigFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("config file %s: key %s must be a scalar", path, key)
		}
		values[strings.ToUpper(key)] = node.Value
	}
	return values, nil
}

// Helper functions

func (l *loader) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return l.file[key]
}

// getPort returns the server port from PORT or SERVER_PORT (default: 8080)
func (l *loader) getPort() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if value := l.lookup(key); value != "" {
			if p, err := strconv.Atoi(value); err == nil {
				return p
			}
		}
	}
	return 8080
}

func (l *loader) getEnv(key, defaultValue string) string {
	if value := l.lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func (l *loader) getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(l.lookup(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(l.lookup(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(l.lookup(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(l.lookup(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	var parts []string
	for _, p := range strings.Split(valueStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
