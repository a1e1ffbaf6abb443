package metrics

import (
	"testing"
	"time"

	"translatorgo/internal/core"
)

type memoryStorage struct {
	saved *core.RequestStats
	stats core.RequestStats
}

func (m *memoryStorage) SaveStats(stats *core.RequestStats) error {
	m.saved = stats
	return nil
}

func (m *memoryStorage) LoadStats() (*core.RequestStats, error) {
	return &m.stats, nil
}

func (m *memoryStorage) Close() error { return nil }

func newTestService(storage core.StorageInterface) *MetricsService {
	return NewMetricsService(MetricsConfig{
		SaveInterval: time.Hour,
		HistorySize:  100,
		Storage:      storage,
		Logger:       &core.NopLogger{},
	})
}

func TestRecordTranslation_Counters(t *testing.T) {
	ms := newTestService(nil)
	defer func() { _ = ms.Close() }()

	ms.RecordTranslation(true, 120, "en-ur", "gemini", "gemini/abc...")
	ms.RecordTranslation(false, 80, "ur-en", "local", "")

	stats := ms.GetRequestStats()
	if stats.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", stats.TotalRequests)
	}
	if stats.SuccessfulRequests != 1 || stats.FailedRequests != 1 {
		t.Errorf("success/fail = %d/%d, want 1/1", stats.SuccessfulRequests, stats.FailedRequests)
	}
	if stats.TotalResponseTime != 200 {
		t.Errorf("TotalResponseTime = %d, want 200", stats.TotalResponseTime)
	}
	if len(stats.RequestHistory) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(stats.RequestHistory))
	}
	if stats.RequestHistory[0].Direction != "en-ur" || stats.RequestHistory[1].Provider != "local" {
		t.Errorf("unexpected history records %+v", stats.RequestHistory)
	}
}

func TestSecondaryCounters(t *testing.T) {
	ms := newTestService(nil)
	defer func() { _ = ms.Close() }()

	ms.RecordCacheHit()
	ms.RecordCacheHit()
	ms.RecordCacheMiss()
	ms.RecordCredentialRotation()
	ms.RecordCredentialRotation()
	ms.RecordCredentialRotation()
	ms.RecordLocalFallback()

	hits, misses, rotations, fallbacks := ms.GetCounters()
	if hits != 2 || misses != 1 || rotations != 3 || fallbacks != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 2/1/3/1", hits, misses, rotations, fallbacks)
	}
}

func TestProviderFailures(t *testing.T) {
	ms := newTestService(nil)
	defer func() { _ = ms.Close() }()

	ms.RecordProviderFailure("gemini")
	ms.RecordProviderFailure("gemini")
	ms.RecordProviderFailure("groq")

	failures := ms.GetProviderFailures()
	if failures["gemini"] != 2 || failures["groq"] != 1 {
		t.Errorf("failures = %v", failures)
	}

	failures["gemini"] = 99
	if ms.GetProviderFailures()["gemini"] != 2 {
		t.Error("GetProviderFailures should return a copy")
	}
}

func TestHistoryBounded(t *testing.T) {
	ms := NewMetricsService(MetricsConfig{
		SaveInterval: time.Hour,
		HistorySize:  5,
		Logger:       &core.NopLogger{},
	})
	defer func() { _ = ms.Close() }()

	for i := 0; i < 20; i++ {
		ms.RecordTranslation(true, 10, "en-ur", "gemini", "c")
	}

	stats := ms.GetRequestStats()
	if len(stats.RequestHistory) > 5 {
		t.Errorf("history holds %d records, cap is 5", len(stats.RequestHistory))
	}
	if stats.TotalRequests != 20 {
		t.Errorf("TotalRequests = %d, want 20", stats.TotalRequests)
	}
}

func TestGetQPS(t *testing.T) {
	ms := newTestService(nil)
	defer func() { _ = ms.Close() }()

	if qps := ms.GetQPS(); qps != 0 {
		t.Errorf("idle QPS = %f, want 0", qps)
	}

	for i := 0; i < 6; i++ {
		ms.RecordTranslation(true, 10, "en-ur", "gemini", "c")
	}
	if qps := ms.GetQPS(); qps != 0.1 {
		t.Errorf("QPS = %f, want 0.1", qps)
	}
}

func TestGetPeriodStats(t *testing.T) {
	now := time.Now()
	history := []core.RequestRecord{
		{Timestamp: now.Add(-10 * time.Minute), Success: true, ResponseTime: 100},
		{Timestamp: now.Add(-2 * time.Hour), Success: false, ResponseTime: 300},
		{Timestamp: now.Add(-48 * time.Hour), Success: true, ResponseTime: 200},
	}

	result := GetPeriodStats(history, 1, 24)

	day := result[24]
	if day.Requests != 2 {
		t.Errorf("24h requests = %d, want 2", day.Requests)
	}
	if day.SuccessRate != 50 {
		t.Errorf("24h success rate = %f, want 50", day.SuccessRate)
	}
	if day.AvgResponseTime != 200 {
		t.Errorf("24h avg response time = %d, want 200", day.AvgResponseTime)
	}

	hour := result[1]
	if hour.Requests != 1 || hour.SuccessRate != 100 {
		t.Errorf("1h stats = %+v", hour)
	}

	if GetPeriodStats(history) != nil {
		t.Error("no periods should yield nil")
	}
}

func TestLoadAndSaveStats(t *testing.T) {
	storage := &memoryStorage{
		stats: core.RequestStats{
			TotalRequests:      10,
			SuccessfulRequests: 8,
			FailedRequests:     2,
			TotalResponseTime:  1000,
		},
	}

	ms := newTestService(storage)
	if err := ms.LoadStats(); err != nil {
		t.Fatalf("LoadStats: %v", err)
	}

	stats := ms.GetRequestStats()
	if stats.TotalRequests != 10 || stats.SuccessfulRequests != 8 {
		t.Errorf("loaded stats = %+v", stats)
	}

	ms.RecordTranslation(true, 50, "en-ur", "gemini", "c")
	if err := ms.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if storage.saved == nil {
		t.Fatal("Close should persist final stats")
	}
	if storage.saved.TotalRequests != 11 {
		t.Errorf("saved TotalRequests = %d, want 11", storage.saved.TotalRequests)
	}
}
