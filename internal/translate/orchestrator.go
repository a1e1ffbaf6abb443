// Package translate composes the remote rotation loop with the local
// fallback tier. Remote providers are tried in credential rotation order;
// on total exhaustion the local model answers, and that tier never raises:
// the caller always receives a displayable string.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"translatorgo/internal/cache"
	"translatorgo/internal/core"
	"translatorgo/internal/prompt"
	"translatorgo/internal/util"
)

// Orchestrator is the translation entry point.
type Orchestrator struct {
	cursor    *Cursor
	providers map[string]core.Provider
	builder   *prompt.Builder
	local     core.LocalTranslator
	cache     *cache.CacheService
	logger    core.Logger
	metrics   core.MetricsCollector
}

// OrchestratorConfig orchestrator configuration
type OrchestratorConfig struct {
	Credentials []core.Credential
	Providers   []core.Provider
	Builder     *prompt.Builder
	Local       core.LocalTranslator
	Cache       *cache.CacheService
	Logger      core.Logger
	Metrics     core.MetricsCollector
}

// NewOrchestrator creates an orchestrator. Misconfiguration (a credential
// naming an unknown provider, no local tier) is rejected here, at startup;
// translate-time failures never propagate to the caller.
func NewOrchestrator(config OrchestratorConfig) (*Orchestrator, error) {
	if config.Local == nil {
		return nil, core.ErrInvalidConfig("local translator", "required")
	}

	logger := config.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = &core.NopMetrics{}
	}
	builder := config.Builder
	if builder == nil {
		builder = &prompt.Builder{}
	}

	providers := make(map[string]core.Provider, len(config.Providers))
	for _, p := range config.Providers {
		providers[p.Name()] = p
	}

	for _, cred := range config.Credentials {
		if _, ok := providers[cred.Provider]; !ok {
			return nil, core.ErrInvalidConfig("credentials", fmt.Sprintf("no provider adapter named %q", cred.Provider))
		}
	}

	logger.Info("Orchestrator initialized with %d credentials across %d providers", len(config.Credentials), len(providers))

	return &Orchestrator{
		cursor:    NewCursor(config.Credentials),
		providers: providers,
		builder:   builder,
		local:     config.Local,
		cache:     config.Cache,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Translate produces a best-effort translation. Empty input short-circuits
// to an empty result without contacting any backend.
func (o *Orchestrator) Translate(ctx context.Context, req core.TranslationRequest) core.TranslationResult {
	// Normalization happens exactly once per request, never per attempt.
	text := util.NormalizeText(req.Text)
	if text == "" {
		return core.TranslationResult{}
	}

	if req.Tone == "" {
		req.Tone = core.ToneFormal
	}

	// Context-dependent output cannot be cached safely.
	cacheable := o.cache != nil && len(req.Context) == 0
	cacheKey := ""
	if cacheable {
		cacheKey = cache.TranslationCacheKey(text, req.Source, req.Target, req.Tone, req.WithInsight)
		if cached, found := o.cache.GetTranslation(cacheKey); found {
			o.metrics.RecordCacheHit()
			o.logger.Debug("Translation cache hit: %s", cache.TruncateCacheKey(cacheKey, 12))
			return cached
		}
		o.metrics.RecordCacheMiss()
	}

	if o.cursor.Len() > 0 {
		result, err := o.translateRemote(ctx, req, text)
		if err == nil {
			if cacheable {
				o.cache.SetTranslation(cacheKey, result, core.TranslationCacheTTL)
			}
			return result
		}
		o.logger.Error("All remote providers failed or exhausted: %v", err)
	}

	o.logger.Info("Using local fallback for %s -> %s", req.Source, req.Target)
	o.metrics.RecordLocalFallback()
	return o.translateLocal(ctx, text, req.Source, req.Target)
}

// translateRemote runs the bounded rotation loop: each credential at most
// once per call, and within a credential every configured model top-down.
func (o *Orchestrator) translateRemote(ctx context.Context, req core.TranslationRequest, text string) (core.TranslationResult, error) {
	builder := o.builder
	if req.WithInsight != builder.WithInsight {
		builder = &prompt.Builder{WithInsight: req.WithInsight}
	}
	built := builder.Build(req.Source, req.Target, req.Tone, req.Context, text)

	var lastErr error
	for attempt := 0; attempt < o.cursor.Len(); attempt++ {
		credential := o.cursor.Next()
		o.metrics.RecordCredentialRotation()

		p := o.providers[credential.Provider]

		systemPrompt, userPrompt := built.System, built.User
		if !p.SupportsSystemInstruction() {
			systemPrompt, userPrompt = "", built.Combined()
		}

		for _, model := range p.Models() {
			raw, err := p.Generate(ctx, credential, model, systemPrompt, userPrompt)
			if err != nil {
				lastErr = err
				o.metrics.RecordProviderFailure(p.Name())
				o.logger.Warn("Provider %s model %s failed for %s: %v", p.Name(), model, credential.DisplayName(), err)
				continue
			}
			if strings.TrimSpace(raw) == "" {
				lastErr = core.NewRequestError(p.Name(), model, 0, errors.New("empty response text"))
				continue
			}

			result := prompt.ParseResponse(raw)
			result.Provider = p.Name()
			result.Model = model
			return result, nil
		}

		// Any failure class is retryable by rotation; quota-class is only
		// logged differently.
		if core.IsQuotaError(lastErr) {
			o.logger.Warn("Credential %s quota exhausted, rotating...", credential.DisplayName())
		} else {
			o.logger.Warn("Credential %s failed all models, rotating...", credential.DisplayName())
		}
	}

	if lastErr != nil {
		return core.TranslationResult{}, fmt.Errorf("%w: last error: %v", core.ErrAllProvidersExhausted, lastErr)
	}
	return core.TranslationResult{}, core.ErrAllProvidersExhausted
}

// translateLocal invokes the local tier and converts every failure into an
// inline error-marker string so the caller always has something to render.
func (o *Orchestrator) translateLocal(ctx context.Context, text, source, target string) core.TranslationResult {
	translated, err := o.local.TranslateLocal(ctx, text, source, target)
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedPair) {
			return core.TranslationResult{
				Translation: fmt.Sprintf("%s: %s -> %s", core.UnsupportedPairMarker, source, target),
				Provider:    "local",
			}
		}
		o.logger.Error("Local translation failed: %v", err)
		return core.TranslationResult{
			Translation: fmt.Sprintf("%s: %v", core.LocalErrorMarker, err),
			Provider:    "local",
		}
	}

	return core.TranslationResult{Translation: translated, Provider: "local"}
}

// CursorPosition exposes the rotation cursor offset for monitoring.
func (o *Orchestrator) CursorPosition() uint64 {
	return o.cursor.Position()
}

// CredentialCount returns the number of configured credentials.
func (o *Orchestrator) CredentialCount() int {
	return o.cursor.Len()
}
