package config

import "time"

// Feed format kinds accepted for a city source.
const (
	FormatRSS  = "rss"
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ServerConfig contains the HTTP serving configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// CacheConfig controls the per-city snapshot cache.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttlSeconds" validate:"gte=0"`
}

// FetchConfig controls the upstream HTTP client.
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds" validate:"gte=0"`
	// RetryAttempts is how many extra attempts an adapter makes when a
	// fetch fails with a transient error. Zero disables retries.
	RetryAttempts int `yaml:"retryAttempts" validate:"gte=0,lte=5"`
}

// CityConfig describes one registered municipal source.
type CityConfig struct {
	ID        string  `yaml:"id" validate:"required"`
	Name      string  `yaml:"name" validate:"required"`
	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude" validate:"gte=-180,lte=180"`
	FeedURL   string  `yaml:"feedURL" validate:"required,url"`
	Format    string  `yaml:"format" validate:"required,oneof=rss xml json csv"`
	// DatasetPath points at the static reference dataset for the city.
	DatasetPath string `yaml:"datasetPath" validate:"required"`
	// StrictCapacity rejects records reporting more available spaces
	// than capacity instead of clamping them.
	StrictCapacity bool `yaml:"strictCapacity"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Cache  CacheConfig  `yaml:"cache"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Cities []CityConfig `yaml:"cities" validate:"min=1,dive"`
}

// CacheTTL returns the configured snapshot TTL.
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// FetchTimeout returns the configured upstream request deadline.
func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
