package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // sqlite, postgres, mysql, mongo, redis, memory
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	DBName             string `yaml:"db_name"` // mongo database / redis key prefix
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	UpdateIntervalSeconds int             `yaml:"update_interval_seconds"`
	CacheTTLSeconds       int             `yaml:"cache_ttl_seconds"`
	BackgroundRefresh     bool            `yaml:"background_refresh"`
	Tickers               []string        `yaml:"tickers"`
	Sources               []MSourceConfig `yaml:"sources"`
}

type MSourceConfig struct {
	Name                 string `yaml:"name"` // yahoo, polygon
	APIKey               string `yaml:"api_key"`
	MaxRequestsPerMinute int    `yaml:"max_requests_per_minute"`
	Burst                int    `yaml:"burst"`
}
