package core

import "time"

// HTTP client config constants
const (
	HTTPMaxIdleConns          = 500
	HTTPMaxIdleConnsPerHost   = 100
	HTTPMaxConnsPerHost       = 200
	HTTPIdleConnTimeout       = 600 * time.Second
	HTTPTLSHandshakeTimeout   = 30 * time.Second
	HTTPResponseHeaderTimeout = 30 * time.Second
	HTTPExpectContinueTimeout = 5 * time.Second
	HTTPRequestTimeout        = 30 * time.Second
)

// Cache config constants
const (
	CacheDefaultCapacity = 1000
	CacheCleanupInterval = 5 * time.Minute
	TranslationCacheTTL  = 30 * time.Minute
	StatsCacheTTL        = 5 * time.Second
	CacheKeyVersion      = "v1"
)

// Stats and monitoring constants
const (
	StatsFilePath        = "stats.json"
	MinSaveInterval      = 5 * time.Second
	HistoryBufferSize    = 1000
	HistoryBatchSize     = 100
	HistoryFlushInterval = 100 * time.Millisecond
)

// Local inference tier constants
const (
	DefaultLocalMTURL  = "http://127.0.0.1:8500"
	LocalWarmupTimeout = 120 * time.Second
)

// Response body size limits
const (
	MaxResponseBodySize = 10 * 1024 * 1024
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
	DirPermission           = 0755
)

// Header constants
const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
	AuthBearerPrefix  = "Bearer "
	CORSMaxAge        = "86400"
)

// Time format constants
const (
	TimeFormatDateTime = "2006-01-02 15:04:05"
)
