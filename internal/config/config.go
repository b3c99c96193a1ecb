package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the leaflock
// client. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the transport hash key
	// and the application version.
	App App `envPrefix:"APP_"`

	// Server holds the sync server address and outbound request timeout.
	Server Server `envPrefix:"SERVER_"`

	// Storage holds the local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds background sync worker settings.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used to sign outbound sync request bodies
	// (the X-Payload-Hash header). Empty disables the header.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running client
	// (e.g. "1.2.3").
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Server holds network settings for the outbound transport layer.
type Server struct {
	// Address is the sync server TCP address in "host:port" format
	// (e.g. "localhost:8080").
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "15s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite data source name: a file path, created on first
	// run if missing (e.g. "leaflock.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds settings for the background sync worker and the sync engine
// batch sizes.
type Sync struct {
	// Interval defines how often the background worker triggers a sync
	// round-trip (e.g. "30s").
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// UploadBatchLimit caps how many dirty items travel in one request.
	// Env: SYNC_UPLOAD_BATCH_LIMIT
	UploadBatchLimit int `env:"UPLOAD_BATCH_LIMIT"`

	// DownloadPageLimit caps how many items the server returns per page.
	// Env: SYNC_DOWNLOAD_PAGE_LIMIT
	DownloadPageLimit int `env:"DOWNLOAD_PAGE_LIMIT"`
}

// HTTPBaseURL returns the base URL the HTTP transport should dial.
func (s Server) HTTPBaseURL() string {
	return "http://" + s.Address
}

// Defaults applied for any field left unset by all sources.
const (
	DefaultServerAddress     = "localhost:8080"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultDatabaseDSN       = "leaflock.db"
	DefaultSyncInterval      = 30 * time.Second
	DefaultUploadBatchLimit  = 150
	DefaultDownloadPageLimit = 150
)

// applyDefaults fills every zero-valued field that has a usable default.
// Secrets (the hash key) have no default.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultServerAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = DefaultDatabaseDSN
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = DefaultSyncInterval
	}
	if cfg.Sync.UploadBatchLimit == 0 {
		cfg.Sync.UploadBatchLimit = DefaultUploadBatchLimit
	}
	if cfg.Sync.DownloadPageLimit == 0 {
		cfg.Sync.DownloadPageLimit = DefaultDownloadPageLimit
	}
}

// GetClientConfig loads, merges, and validates the client configuration from
// all available sources in the following priority order (earlier sources win
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Fields left unset by every source fall back to defaults. Returns a fully
// populated *StructuredConfig or an error if any source fails to load or the
// final config fails validation.
func GetClientConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}
