package config

import "time"

// Config represents the complete application configuration, merged
// from defaults, an optional YAML config file, and TLDSWEEP_*
// environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Check   CheckConfig   `mapstructure:"check"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`

	// TLDSetsPath points at a YAML file with user-defined TLD sets.
	TLDSetsPath string `mapstructure:"tld_sets_path"`

	RateLimits      map[string]int `mapstructure:"rate_limits"`
	RateLimitMargin float64        `mapstructure:"rate_limit_margin"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// CacheConfig contains verdict cache TTL configuration.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	AvailableTTL time.Duration `mapstructure:"available_ttl"`
	TakenTTL     time.Duration `mapstructure:"taken_ttl"`
}

// CheckConfig drives the checking engine.
type CheckConfig struct {
	// Timeout caps each individual lookup call.
	Timeout time.Duration `mapstructure:"timeout"`

	// Retries is the retry budget per check after the initial attempt.
	Retries int `mapstructure:"retries"`

	// MaxConcurrency caps in-flight lookups within one domain's batch.
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// LookupConfig selects and tunes the lookup backends.
type LookupConfig struct {
	RDAP  RDAPConfig  `mapstructure:"rdap"`
	Whois WhoisConfig `mapstructure:"whois"`
	DNS   DNSConfig   `mapstructure:"dns"`
}

// RDAPConfig tunes the RDAP backend.
type RDAPConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Overrides routes specific TLDs to known-good RDAP servers.
	Overrides map[string][]string `mapstructure:"overrides"`
}

// WhoisConfig tunes the WHOIS fallback.
type WhoisConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Servers overrides the WHOIS server per TLD.
	Servers map[string]string `mapstructure:"servers"`

	// QueriesPerSecond and Burst throttle outbound WHOIS traffic.
	QueriesPerSecond float64 `mapstructure:"queries_per_second"`
	Burst            int     `mapstructure:"burst"`

	AvailablePatterns []string `mapstructure:"available_patterns"`
	TakenPatterns     []string `mapstructure:"taken_patterns"`
}

// DNSConfig tunes the DNS fallback.
type DNSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level.
	// Valid values: SIMPLE, STRUCTURED, ENTERPRISE
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated metrics endpoint port (Prometheus format).
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
