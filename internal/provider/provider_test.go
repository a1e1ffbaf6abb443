package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"translatorgo/internal/core"
)

var testCredential = core.Credential{Provider: "test", Key: "test-key-123456"}

func TestGemini_GenerateSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ہیلو"}]}}]}`))
	}))
	defer server.Close()

	g := NewGemini([]string{"gemini-1.5-flash"}, server.Client(), nil).WithBaseURL(server.URL)
	text, err := g.Generate(context.Background(), testCredential, "gemini-1.5-flash", "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ہیلو" {
		t.Errorf("text = %q, want %q", text, "ہیلو")
	}
	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != testCredential.Key {
		t.Errorf("key = %q, want credential key", gotKey)
	}
	if !strings.Contains(string(gotBody), "systemInstruction") {
		t.Errorf("request should carry a systemInstruction field, got %s", gotBody)
	}
}

func TestGemini_QuotaClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		quota  bool
	}{
		{"http 429", http.StatusTooManyRequests, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`, true},
		{"http 429 with undecodable body", http.StatusTooManyRequests, `rate limited`, true},
		{"resource exhausted on 403", http.StatusForbidden, `{"error":{"code":403,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad"}}`, false},
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"status":"INTERNAL","message":"boom"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			g := NewGemini(nil, server.Client(), nil).WithBaseURL(server.URL)
			_, err := g.Generate(context.Background(), testCredential, "gemini-1.5-flash", "", "user")
			if err == nil {
				t.Fatal("expected an error")
			}
			if core.IsQuotaError(err) != tt.quota {
				t.Errorf("IsQuotaError = %v, want %v (err: %v)", core.IsQuotaError(err), tt.quota, err)
			}
		})
	}
}

func TestGemini_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	g := NewGemini(nil, server.Client(), nil).WithBaseURL(server.URL)
	_, err := g.Generate(context.Background(), testCredential, "gemini-1.5-flash", "", "user")
	if err == nil {
		t.Fatal("expected an error for empty candidates")
	}
	if core.IsQuotaError(err) {
		t.Error("empty response is a request failure, not a quota failure")
	}
}

func TestGemini_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	g := NewGemini(nil, server.Client(), nil).WithBaseURL(server.URL)
	_, err := g.Generate(context.Background(), testCredential, "gemini-1.5-flash", "", "user")
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "malformed response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGemini_DefaultModelChain(t *testing.T) {
	g := NewGemini(nil, http.DefaultClient, nil)
	if len(g.Models()) != len(DefaultGeminiModels) {
		t.Errorf("nil models should fall back to the default chain")
	}
	if g.Name() != NameGemini || !g.SupportsSystemInstruction() {
		t.Errorf("unexpected adapter identity")
	}
}

func TestGroq_GenerateSuccess(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello"}}]}`))
	}))
	defer server.Close()

	g := NewGroq([]string{"llama-3.3-70b-versatile"}, server.Client(), nil).WithBaseURL(server.URL)
	text, err := g.Generate(context.Background(), testCredential, "llama-3.3-70b-versatile", "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello" {
		t.Errorf("text = %q, want %q", text, "Hello")
	}
	if gotAuth != core.AuthBearerPrefix+testCredential.Key {
		t.Errorf("auth = %q, want bearer credential key", gotAuth)
	}
	body := string(gotBody)
	if !strings.Contains(body, `"role":"system"`) || !strings.Contains(body, `"role":"user"`) {
		t.Errorf("request should carry system and user messages, got %s", body)
	}
}

func TestGroq_QuotaClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		quota  bool
	}{
		{"http 429", http.StatusTooManyRequests, `{"error":{"message":"nope","type":"rate_limit","code":"x"}}`, true},
		{"http 429 with undecodable body", http.StatusTooManyRequests, `rate limited`, true},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"nope","type":"auth","code":"x"}}`, false},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server","code":"x"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			g := NewGroq(nil, server.Client(), nil).WithBaseURL(server.URL)
			_, err := g.Generate(context.Background(), testCredential, "llama-3.1-8b-instant", "", "user")
			if err == nil {
				t.Fatal("expected an error")
			}
			if core.IsQuotaError(err) != tt.quota {
				t.Errorf("IsQuotaError = %v, want %v", core.IsQuotaError(err), tt.quota)
			}
		})
	}
}

func TestGroq_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	g := NewGroq(nil, server.Client(), nil).WithBaseURL(server.URL)
	_, err := g.Generate(context.Background(), testCredential, "llama-3.1-8b-instant", "", "user")
	if err == nil {
		t.Fatal("expected an error for empty choices")
	}
}

func TestGroq_OmitsSystemMessageWhenEmpty(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	g := NewGroq(nil, server.Client(), nil).WithBaseURL(server.URL)
	if _, err := g.Generate(context.Background(), testCredential, "llama-3.1-8b-instant", "", "user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(gotBody), `"role":"system"`) {
		t.Errorf("empty system prompt should not produce a system message, got %s", gotBody)
	}
}

func TestGemini_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGemini(nil, server.Client(), nil).WithBaseURL(server.URL)
	_, err := g.Generate(ctx, testCredential, "gemini-1.5-flash", "", "user")
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
	if core.IsQuotaError(err) {
		t.Error("transport failure should classify as a request failure")
	}
}
