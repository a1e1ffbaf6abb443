package core

import (
	"context"
	"time"
)

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// StorageInterface storage interface for persisted stats
type StorageInterface interface {
	SaveStats(stats *RequestStats) error
	LoadStats() (*RequestStats, error)
	Close() error
}

// Provider is one remote translation backend. Generate sends a single
// prompt with a credential and model identifier and returns the raw
// response text. Failures are returned as *ProviderError so the caller
// can distinguish quota exhaustion from other failures.
type Provider interface {
	Name() string
	Models() []string
	SupportsSystemInstruction() bool
	Generate(ctx context.Context, credential Credential, model, systemPrompt, userPrompt string) (string, error)
}

// LocalTranslator is the last-resort, no-network translation tier.
type LocalTranslator interface {
	TranslateLocal(ctx context.Context, text, source, target string) (string, error)
}

// HistoryStore is a bounded per-session conversation log.
type HistoryStore interface {
	GetHistory(sessionID string) ([]Turn, error)
	AppendMessage(sessionID, role, content, insight string) ([]Turn, error)
	ClearHistory(sessionID string) error
	Close() error
}

// MetricsCollector interface
type MetricsCollector interface {
	RecordHTTPRequest(duration time.Duration)
	RecordHTTPError()
	RecordCacheHit()
	RecordCacheMiss()
	RecordProviderFailure(provider string)
	RecordCredentialRotation()
	RecordLocalFallback()
	GetQPS() float64
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}

// NopMetrics empty metrics collector implementation
type NopMetrics struct{}

func (*NopMetrics) RecordHTTPRequest(duration time.Duration) {}
func (*NopMetrics) RecordHTTPError()                         {}
func (*NopMetrics) RecordCacheHit()                          {}
func (*NopMetrics) RecordCacheMiss()                         {}
func (*NopMetrics) RecordProviderFailure(provider string)    {}
func (*NopMetrics) RecordCredentialRotation()                {}
func (*NopMetrics) RecordLocalFallback()                     {}
func (*NopMetrics) GetQPS() float64                          { return 0 }
