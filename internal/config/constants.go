package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

// Stale upload temp files older than this are removed by the cleanup job
const UploadTempMaxAge = time.Hour

// Default rate limiting for authenticated routes
const DefaultRateLimitPerMin = 60

// DefaultDataFile is the bundled Parquet file used when a load is triggered
// without naming an uploaded file.
const DefaultDataFile = "dados_sensores_5000.parquet"

// Pagination defaults for the companies listing
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
