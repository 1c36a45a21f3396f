// Package config provides configuration management for accmeta.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Resolve: retries, delays, timeouts, coordinate order, required fields
//   - NCBI: base_url, api_key, email, tool, requests_per_second
//   - Output: summary_json
//   - Cache: enabled, ttl
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Output.Quiet
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use ACCMETA_ prefix with underscores for nesting:
//
//	ACCMETA_NCBI_API_KEY=0123456789abcdef
//	ACCMETA_RESOLVE_MAX_RETRY_ATTEMPTS=3
//	ACCMETA_LOG_LEVEL=debug
//	ACCMETA_JOBS_NUMBER=4
package config

import (
	"time"
)

// Config represents the complete accmeta configuration.
type Config struct {
	// Resolve contains settings of metadata resolution.
	Resolve ResolveConfig `mapstructure:"resolve" yaml:"resolve"`

	// NCBI contains settings of E-utilities access.
	NCBI NCBIConfig `mapstructure:"ncbi" yaml:"ncbi"`

	Output OutputConfig `mapstructure:"output" yaml:"output"`

	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Database contains PostgreSQL connection settings for export.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of accessions resolved at the same time.
	// The default 1 keeps resolution strictly sequential.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// ResolveConfig contains settings of remote calls and field extraction.
type ResolveConfig struct {
	// MaxRetryAttempts is the total number of attempts of a remote call.
	MaxRetryAttempts int `mapstructure:"max_retry_attempts" yaml:"max_retry_attempts"`

	// RetryBaseDelay is the wait after the first failed attempt. It doubles
	// with every following attempt.
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" yaml:"retry_base_delay"`

	// RetryJitter is the upper bound of a random addition to retry waits.
	RetryJitter time.Duration `mapstructure:"retry_jitter" yaml:"retry_jitter"`

	// PerCallTimeout limits a single remote call. A timeout is a
	// transient failure.
	PerCallTimeout time.Duration `mapstructure:"per_call_timeout" yaml:"per_call_timeout"`

	// InterAccessionDelay is the pause after each accession.
	InterAccessionDelay time.Duration `mapstructure:"inter_accession_delay" yaml:"inter_accession_delay"`

	// CoordOrder is "lat_lon" or "lon_lat".
	CoordOrder string `mapstructure:"coord_order" yaml:"coord_order"`

	// RequiredFields trigger the linked sample lookup when they are
	// missing after the primary record.
	RequiredFields []string `mapstructure:"required_fields" yaml:"required_fields"`

	// CanonicalOrganism replaces organism names with canonical forms.
	CanonicalOrganism bool `mapstructure:"canonical_organism" yaml:"canonical_organism"`
}

// NCBIConfig contains E-utilities settings.
type NCBIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// APIKey raises the request budget from 3 to 10 requests per second.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Email and Tool identify the client to NCBI.
	Email string `mapstructure:"email" yaml:"email"`
	Tool  string `mapstructure:"tool" yaml:"tool"`

	// RequestsPerSecond overrides the request budget. Zero means the
	// budget is derived from APIKey.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// RequestBudget returns requests per second allowed by NCBI.
func (n NCBIConfig) RequestBudget() float64 {
	if n.RequestsPerSecond > 0 {
		return n.RequestsPerSecond
	}
	if n.APIKey != "" {
		return 10
	}
	return 3
}

// OutputConfig contains settings of results output.
type OutputConfig struct {
	// SummaryJSON prints run summary as JSON.
	SummaryJSON bool `mapstructure:"summary_json" yaml:"summary_json"`

	// Quiet suppresses progress bar and summary.
	Quiet bool `mapstructure:"-" yaml:"-"`
}

// CacheConfig contains settings of the local record cache.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// TTL is the age after which cached records are resolved again.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows copied to the database at once.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Resolve: ResolveConfig{
			MaxRetryAttempts:    5,
			RetryBaseDelay:      3 * time.Second,
			RetryJitter:         2 * time.Second,
			PerCallTimeout:      17 * time.Second,
			InterAccessionDelay: 500 * time.Millisecond,
			CoordOrder:          "lat_lon",
			RequiredFields:      []string{"coordinates"},
		},
		NCBI: NCBIConfig{
			BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			Tool:    AppName,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "accmeta",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: 1,
	}

	return res
}
