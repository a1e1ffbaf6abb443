// Package local is the last-resort translation tier. It talks to a Marian MT
// sidecar on localhost that holds one sequence-to-sequence model per directed
// language pair; from here the models are an opaque text -> text function.
package local

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"translatorgo/internal/core"
	"translatorgo/internal/util"
)

// MarianClient wraps the local inference sidecar. Warmup (model loading on
// the sidecar) happens at most once per process under a lock; a failed
// warmup fails only the call that triggered it and is retried by the next.
type MarianClient struct {
	baseURL    string
	httpClient *http.Client
	logger     core.Logger

	mu     sync.Mutex
	loaded bool
}

// NewMarianClient creates a client for the Marian sidecar at baseURL.
func NewMarianClient(baseURL string, httpClient *http.Client, logger core.Logger) *MarianClient {
	if baseURL == "" {
		baseURL = core.DefaultLocalMTURL
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &MarianClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// SupportedPair reports whether the directed pair has a local model.
func SupportedPair(source, target string) bool {
	return (source == core.LangEnglish && target == core.LangUrdu) ||
		(source == core.LangUrdu && target == core.LangEnglish)
}

type warmupRequest struct {
	Pairs []string `json:"pairs"`
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error,omitempty"`
}

// TranslateLocal translates text using the local model pair. Unsupported
// pairs are rejected before any sidecar contact.
func (m *MarianClient) TranslateLocal(ctx context.Context, text, source, target string) (string, error) {
	if !SupportedPair(source, target) {
		return "", fmt.Errorf("%w: %s -> %s", core.ErrUnsupportedPair, source, target)
	}

	if err := m.ensureLoaded(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrLocalModelLoad, err)
	}

	payload := translateRequest{Text: text, Source: source, Target: target}
	body, err := util.MarshalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrLocalInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrLocalInference, err)
	}
	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrLocalInference, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))

	var parsed translateResponse
	if err := util.UnmarshalJSON(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed sidecar response: %v", core.ErrLocalInference, err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != "" {
		return "", fmt.Errorf("%w: status %d: %s", core.ErrLocalInference, resp.StatusCode, parsed.Error)
	}

	if parsed.Translation == "" {
		return "", fmt.Errorf("%w: empty translation", core.ErrLocalInference)
	}

	return parsed.Translation, nil
}

// ensureLoaded triggers the sidecar's model load once. The expensive
// initialization is amortized across the process lifetime; failures are not
// cached so a later call can retry.
func (m *MarianClient) ensureLoaded(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return nil
	}

	m.logger.Info("Warming up local MarianMT models...")

	warmupCtx, cancel := context.WithTimeout(ctx, core.LocalWarmupTimeout)
	defer cancel()

	payload := warmupRequest{Pairs: []string{
		core.LangEnglish + "-" + core.LangUrdu,
		core.LangUrdu + "-" + core.LangEnglish,
	}}
	body, err := util.MarshalJSON(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(warmupCtx, http.MethodPost, m.baseURL+"/warmup", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
		return fmt.Errorf("warmup failed with status %d: %s", resp.StatusCode, string(data))
	}

	m.loaded = true
	m.logger.Info("Local MarianMT models ready")
	return nil
}
