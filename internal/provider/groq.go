package provider

import (
	"context"
	"fmt"
	"net/http"

	"translatorgo/internal/core"
	"translatorgo/internal/util"
)

const groqDefaultBaseURL = "https://api.groq.com/openai/v1"

// Groq adapts Groq's OpenAI-compatible chat completions API.
type Groq struct {
	baseURL    string
	models     []string
	httpClient *http.Client
	logger     core.Logger
}

// NewGroq creates a Groq adapter with the given model chain.
func NewGroq(models []string, httpClient *http.Client, logger core.Logger) *Groq {
	if len(models) == 0 {
		models = DefaultGroqModels
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Groq{
		baseURL:    groqDefaultBaseURL,
		models:     models,
		httpClient: httpClient,
		logger:     logger,
	}
}

// WithBaseURL overrides the API endpoint (used by tests).
func (g *Groq) WithBaseURL(url string) *Groq {
	g.baseURL = url
	return g
}

// Name returns the adapter name.
func (g *Groq) Name() string { return NameGroq }

// Models returns the configured model chain.
func (g *Groq) Models() []string { return g.models }

// SupportsSystemInstruction reports that Groq takes a system-role message.
func (g *Groq) SupportsSystemInstruction() bool { return true }

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate sends one prompt to a Groq model and returns the response text.
func (g *Groq) Generate(ctx context.Context, credential core.Credential, model, systemPrompt, userPrompt string) (string, error) {
	messages := make([]groqMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, groqMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, groqMessage{Role: "user", Content: userPrompt})

	payload := groqRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.3,
	}

	header := http.Header{}
	header.Set("Authorization", core.AuthBearerPrefix+credential.Key)

	resp, err := postJSON(ctx, g.httpClient, g.baseURL+"/chat/completions", payload, header)
	if err != nil {
		return "", core.NewRequestError(NameGroq, model, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := readBody(resp)

	// 429 is quota-class regardless of whether the body decodes.
	var parsed groqResponse
	decodeErr := util.UnmarshalJSON(body, &parsed)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", core.NewQuotaError(NameGroq, model, resp.StatusCode, groqAPIError(parsed.Error))
	}
	if decodeErr != nil {
		return "", core.NewRequestError(NameGroq, model, resp.StatusCode, fmt.Errorf("malformed response: %w", decodeErr))
	}

	if resp.StatusCode != http.StatusOK {
		return "", core.NewRequestError(NameGroq, model, resp.StatusCode, groqAPIError(parsed.Error))
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", emptyResponseError(NameGroq, model)
	}

	return parsed.Choices[0].Message.Content, nil
}

func groqAPIError(e *struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %s", e.Type, e.Message)
}
