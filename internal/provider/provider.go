// Package provider contains the remote translation backend adapters.
// Each adapter classifies its failures into quota-like vs other at this
// boundary, so the rotation loop never inspects error text.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"translatorgo/internal/core"
	"translatorgo/internal/util"
)

// Names of the built-in provider adapters.
const (
	NameGemini = "gemini"
	NameGroq   = "groq"
)

// Default model chains, tried top-down.
var (
	DefaultGeminiModels = []string{"gemini-1.5-flash", "gemini-1.5-flash-8b"}
	DefaultGroqModels   = []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}
)

func postJSON(ctx context.Context, client *http.Client, url string, payload any, header http.Header) (*http.Response, error) {
	body, err := util.MarshalJSON(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	for key, values := range header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	return client.Do(req)
}

func readBody(resp *http.Response) []byte {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
	return data
}

func emptyResponseError(provider, model string) *core.ProviderError {
	return core.NewRequestError(provider, model, http.StatusOK, fmt.Errorf("empty response text"))
}
