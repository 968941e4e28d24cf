package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"stock-screener/src/models"
	"stock-screener/src/storage"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultTickers spans US large caps and NSE listings.
var DefaultTickers = []string{
	"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN",
	"NVDA", "META", "NFLX", "AMD", "INTC",
	"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "ICICIBANK.NS",
}

var supportedDBTypes = map[string]bool{
	"sqlite":     true,
	"postgres":   true,
	"postgresql": true,
	"mysql":      true,
	"mongo":      true,
	"mongodb":    true,
	"redis":      true,
	"memory":     true,
}

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// Default returns a configuration that runs without any file or environment.
func Default() *Config {
	return &Config{MConfig: &models.MConfig{
		Name:     "stock-screener",
		Host:     "0.0.0.0",
		Port:     8000,
		LogLevel: "INFO",
		GrpcHost: "127.0.0.1",
		GrpcPort: 50051,
		Storage: models.MStorageConfig{
			DBType: "sqlite",
			DBPath: "data/stocks.db",
		},
		Network: models.MNetworkConfig{
			Enabled:            true,
			RequestTimeout:     10,
			MaxRetries:         3,
			ConcurrentRequests: 1,
			UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		},
		DataSource: models.MDataSourceConfig{
			UpdateIntervalSeconds: 300,
			CacheTTLSeconds:       300,
			BackgroundRefresh:     false,
			Tickers:               append([]string(nil), DefaultTickers...),
			Sources:               []models.MSourceConfig{{Name: "yahoo"}},
		},
	}}
}

// -----------------------------------------------------------------------------

// NewConfig loads configPath on top of Default. A missing file keeps the
// defaults. A .env file in the working directory and the SCREENER_* variables
// are applied afterwards.
func NewConfig(configPath string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config.MConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv
// outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SCREENER_HOST"); ok {
		c.Host = v
	}
	if v, ok := lookup("SCREENER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCREENER_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v, ok := lookup("SCREENER_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("SCREENER_DB_TYPE"); ok {
		c.Storage.DBType = v
	}
	if v, ok := lookup("SCREENER_DB_PATH"); ok {
		c.Storage.DBPath = v
	}
	if v, ok := lookup("SCREENER_DB_CONNECTION_STRING"); ok {
		c.Storage.DBConnectionString = v
	}
	if v, ok := lookup("SCREENER_TICKERS"); ok {
		c.DataSource.Tickers = splitList(v)
	}
	if v, ok := lookup("POLYGON_API_KEY"); ok {
		for i := range c.DataSource.Sources {
			if c.DataSource.Sources[i].Name == "polygon" {
				c.DataSource.Sources[i].APIKey = v
			}
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = NormalizeTicker(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeTicker trims and upper-cases a ticker entry. Postgres
// "schema.table.column" references keep their case.
func NormalizeTicker(entry string) string {
	entry = strings.TrimSpace(entry)
	if storage.IsTableRef(entry) {
		return entry
	}
	return strings.ToUpper(entry)
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1 and 65535)", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}
	if c.GrpcPort != 0 && c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return fmt.Errorf("grpc port %d collides with the http port", c.GrpcPort)
	}

	// Validate Storage configuration
	dbType := strings.ToLower(c.Storage.DBType)
	if !supportedDBTypes[dbType] {
		return fmt.Errorf("unsupported database type %q", c.Storage.DBType)
	}
	if dbType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if dbType != "sqlite" && dbType != "memory" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("database connection string cannot be empty for %s", dbType)
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return fmt.Errorf("concurrent requests must be greater than 0")
	}

	// Validate DataSource configuration
	if c.DataSource.UpdateIntervalSeconds <= 0 {
		return fmt.Errorf("update interval must be greater than 0")
	}
	if c.DataSource.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	if err := c.validateTickers(dbType); err != nil {
		return err
	}
	if len(c.DataSource.Sources) == 0 {
		return fmt.Errorf("at least one data source must be configured")
	}
	for i, src := range c.DataSource.Sources {
		switch src.Name {
		case "yahoo":
		case "polygon":
			if src.APIKey == "" {
				return fmt.Errorf("source 'polygon' requires an api_key")
			}
		case "":
			return fmt.Errorf("source %d must have a name", i)
		default:
			return fmt.Errorf("unknown data source '%s'", src.Name)
		}
		if src.MaxRequestsPerMinute < 0 || src.Burst < 0 {
			return fmt.Errorf("source '%s' rate limits cannot be negative", src.Name)
		}
	}

	return nil
}

func (c *Config) validateTickers(dbType string) error {
	if len(c.DataSource.Tickers) == 0 {
		return fmt.Errorf("at least one ticker must be configured")
	}
	seen := make(map[string]bool, len(c.DataSource.Tickers))
	for i, t := range c.DataSource.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("ticker %d cannot be empty", i)
		}
		if seen[t] {
			return fmt.Errorf("duplicate ticker %q", t)
		}
		seen[t] = true
		if storage.IsTableRef(t) && dbType != "postgres" && dbType != "postgresql" {
			return fmt.Errorf("ticker %q is a table reference, which requires db_type postgres", t)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
