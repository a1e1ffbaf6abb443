package provider

import (
	"context"
	"fmt"
	"net/http"

	"translatorgo/internal/core"
	"translatorgo/internal/util"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini adapts the Google Generative Language REST API.
type Gemini struct {
	baseURL    string
	models     []string
	httpClient *http.Client
	logger     core.Logger
}

// NewGemini creates a Gemini adapter with the given model chain.
func NewGemini(models []string, httpClient *http.Client, logger core.Logger) *Gemini {
	if len(models) == 0 {
		models = DefaultGeminiModels
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Gemini{
		baseURL:    geminiDefaultBaseURL,
		models:     models,
		httpClient: httpClient,
		logger:     logger,
	}
}

// WithBaseURL overrides the API endpoint (used by tests).
func (g *Gemini) WithBaseURL(url string) *Gemini {
	g.baseURL = url
	return g
}

// Name returns the adapter name.
func (g *Gemini) Name() string { return NameGemini }

// Models returns the configured model chain.
func (g *Gemini) Models() []string { return g.models }

// SupportsSystemInstruction reports that Gemini takes a separate
// systemInstruction field.
func (g *Gemini) SupportsSystemInstruction() bool { return true }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends one prompt to a Gemini model and returns the response text.
func (g *Gemini) Generate(ctx context.Context, credential core.Credential, model, systemPrompt, userPrompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, credential.Key)

	resp, err := postJSON(ctx, g.httpClient, url, payload, nil)
	if err != nil {
		return "", core.NewRequestError(NameGemini, model, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := readBody(resp)

	// 429 is quota-class regardless of whether the body decodes.
	var parsed geminiResponse
	decodeErr := util.UnmarshalJSON(body, &parsed)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", core.NewQuotaError(NameGemini, model, resp.StatusCode, apiError(parsed.Error))
	}
	if decodeErr != nil {
		return "", core.NewRequestError(NameGemini, model, resp.StatusCode, fmt.Errorf("malformed response: %w", decodeErr))
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Status == "RESOURCE_EXHAUSTED" {
			return "", core.NewQuotaError(NameGemini, model, resp.StatusCode, apiError(parsed.Error))
		}
		return "", core.NewRequestError(NameGemini, model, resp.StatusCode, apiError(parsed.Error))
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", emptyResponseError(NameGemini, model)
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", emptyResponseError(NameGemini, model)
	}

	return text, nil
}

func apiError(e *struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %s", e.Status, e.Message)
}
