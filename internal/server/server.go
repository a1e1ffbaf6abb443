package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"translatorgo/internal/cache"
	"translatorgo/internal/config"
	"translatorgo/internal/core"
	"translatorgo/internal/history"
	"translatorgo/internal/local"
	"translatorgo/internal/metrics"
	"translatorgo/internal/prompt"
	"translatorgo/internal/provider"
	"translatorgo/internal/translate"

	"github.com/gin-gonic/gin"
)

// Server application server
type Server struct {
	port    string
	ginMode string

	orchestrator *translate.Orchestrator
	historyStore core.HistoryStore
	httpClient   *http.Client
	router       *gin.Engine

	cache          *cache.CacheService
	metricsService *metrics.MetricsService

	validClientKeys map[string]bool

	config config.ServerConfig

	rateLimiter *rateLimiter

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required in ServerConfig")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required in ServerConfig")
	}

	cfg.Logger.Info("Initializing server with %d credentials", len(cfg.Credentials))

	httpClient := createOptimizedHTTPClient(cfg.HTTPClientSettings)

	cacheService := cache.NewCacheService()

	metricsService := metrics.NewMetricsService(metrics.MetricsConfig{
		SaveInterval: core.MinSaveInterval,
		HistorySize:  core.HistoryBufferSize,
		Storage:      cfg.Storage,
		Logger:       cfg.Logger,
	})

	if err := metricsService.LoadStats(); err != nil {
		cfg.Logger.Warn("Failed to load historical stats: %v", err)
	}

	localClient := local.NewMarianClient(cfg.LocalMTURL, httpClient, cfg.Logger)

	orchestrator, err := translate.NewOrchestrator(translate.OrchestratorConfig{
		Credentials: cfg.Credentials,
		Providers: []core.Provider{
			provider.NewGemini(cfg.GeminiModels, httpClient, cfg.Logger),
			provider.NewGroq(cfg.GroqModels, httpClient, cfg.Logger),
		},
		Builder: &prompt.Builder{},
		Local:   localClient,
		Cache:   cacheService,
		Logger:  cfg.Logger,
		Metrics: metricsService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	historyStore, err := history.InitStore(cfg.HistoryFilePath, cfg.HistoryLimit, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}

	validClientKeys := make(map[string]bool)
	for _, key := range cfg.ClientAPIKeys {
		validClientKeys[key] = true
	}

	if len(validClientKeys) == 0 {
		cfg.Logger.Warn("No client API keys configured, API is open")
	} else {
		cfg.Logger.Info("Loaded %d client API keys", len(validClientKeys))
	}

	rateLimit := 120
	if envRate := os.Getenv("RATE_LIMIT"); envRate != "" {
		if parsed, parseErr := fmt.Sscanf(envRate, "%d", &rateLimit); parseErr != nil || parsed != 1 || rateLimit <= 0 {
			cfg.Logger.Warn("Invalid RATE_LIMIT value '%s', using default 120", envRate)
			rateLimit = 120
		}
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	server := &Server{
		port:            cfg.Port,
		ginMode:         cfg.GinMode,
		orchestrator:    orchestrator,
		historyStore:    historyStore,
		httpClient:      httpClient,
		cache:           cacheService,
		metricsService:  metricsService,
		validClientKeys: validClientKeys,
		config:          cfg,
		rateLimiter:     newRateLimiter(rateLimit),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
	}

	server.setupRoutes()

	return server, nil
}

func createOptimizedHTTPClient(settings config.HTTPClientSettings) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          settings.MaxIdleConns,
		MaxIdleConnsPerHost:   settings.MaxIdleConnsPerHost,
		MaxConnsPerHost:       settings.MaxConnsPerHost,
		IdleConnTimeout:       settings.IdleConnTimeout,
		TLSHandshakeTimeout:   settings.TLSHandshakeTimeout,
		ExpectContinueTimeout: core.HTTPExpectContinueTimeout,
		DisableKeepAlives:     false,
		ForceAttemptHTTP2:     true,
		ResponseHeaderTimeout: core.HTTPResponseHeaderTimeout,
		DisableCompression:    false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   settings.RequestTimeout,
	}
}

// Run runs the server
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute, // local warmup on first fallback can be slow
	}

	go func() {
		<-s.shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.config.Logger.Error("Server shutdown error: %v", err)
		}
	}()

	s.config.Logger.Info("Server starting on port %s", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) setupGracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		s.config.Logger.Info("Shutdown signal received, shutting down gracefully...")
		s.shutdownCancel()
	}()
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy"})
}

// statsCacheKey keys the cached stats snapshot in the general cache.
// Period stats walk the whole request history, so dashboard polling is
// served from a short-lived snapshot instead.
const statsCacheKey = "stats:snapshot"

func (s *Server) getStatsData(c *gin.Context) {
	if cached, found := s.cache.Get(statsCacheKey); found {
		c.JSON(200, cached)
		return
	}

	stats := s.metricsService.GetRequestStats()
	periodStats := metrics.GetPeriodStats(stats.RequestHistory, 24, 24*7, 24*30)
	cacheHits, cacheMisses, rotations, localFallbacks := s.metricsService.GetCounters()

	data := gin.H{
		"currentTime":      time.Now().Format(core.TimeFormatDateTime),
		"currentQPS":       fmt.Sprintf("%.3f", s.metricsService.GetQPS()),
		"totalRequests":    stats.TotalRequests,
		"totalRecords":     len(stats.RequestHistory),
		"stats24h":         periodStats[24],
		"stats7d":          periodStats[24*7],
		"stats30d":         periodStats[24*30],
		"cacheHits":        cacheHits,
		"cacheMisses":      cacheMisses,
		"rotations":        rotations,
		"localFallbacks":   localFallbacks,
		"providerFailures": s.metricsService.GetProviderFailures(),
		"credentialCount":  s.orchestrator.CredentialCount(),
		"cursorPosition":   s.orchestrator.CursorPosition(),
	}

	s.cache.Set(statsCacheKey, data, core.StatsCacheTTL)
	c.JSON(200, data)
}

// Close closes the server
func (s *Server) Close() error {
	if s.shutdownCancel != nil {
		s.shutdownCancel()
	}

	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}

	var closeErr error

	if s.historyStore != nil {
		if err := s.historyStore.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close history store: %w", err))
		}
	}

	if s.metricsService != nil {
		if err := s.metricsService.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close metrics service: %w", err))
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close cache service: %w", err))
		}
	}

	return closeErr
}
