package config

import (
	"testing"

	"translatorgo/internal/core"
	"translatorgo/internal/provider"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GROQ_API_KEYS", "")
}

func TestLoadCredentialsFromEnv_GeminiBeforeGroq(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("GEMINI_API_KEYS", "g1, g2")
	t.Setenv("GROQ_API_KEYS", "q1")

	creds := LoadCredentialsFromEnv()
	if len(creds) != 3 {
		t.Fatalf("len(creds) = %d, want 3", len(creds))
	}

	want := []core.Credential{
		{Provider: provider.NameGemini, Key: "g1"},
		{Provider: provider.NameGemini, Key: "g2"},
		{Provider: provider.NameGroq, Key: "q1"},
	}
	for i := range want {
		if creds[i] != want[i] {
			t.Errorf("creds[%d] = %+v, want %+v", i, creds[i], want[i])
		}
	}
}

func TestLoadCredentialsFromEnv_SingleKeyFallback(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("GEMINI_API_KEY", "solo")

	creds := LoadCredentialsFromEnv()
	if len(creds) != 1 || creds[0].Key != "solo" || creds[0].Provider != provider.NameGemini {
		t.Errorf("unexpected credentials %+v", creds)
	}
}

func TestLoadCredentialsFromEnv_PluralWinsOverSingular(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("GEMINI_API_KEYS", "a,b")
	t.Setenv("GEMINI_API_KEY", "ignored")

	creds := LoadCredentialsFromEnv()
	if len(creds) != 2 {
		t.Fatalf("len(creds) = %d, want 2", len(creds))
	}
	for _, c := range creds {
		if c.Key == "ignored" {
			t.Error("GEMINI_API_KEY should be ignored when GEMINI_API_KEYS is set")
		}
	}
}

func TestLoadCredentialsFromEnv_Empty(t *testing.T) {
	clearCredentialEnv(t)
	if creds := LoadCredentialsFromEnv(); len(creds) != 0 {
		t.Errorf("expected no credentials, got %+v", creds)
	}
}

func TestLoadServerConfigFromEnv_Defaults(t *testing.T) {
	clearCredentialEnv(t)
	for _, key := range []string{
		"PORT", "GIN_MODE", "CLIENT_API_KEYS", "GEMINI_MODELS", "GROQ_MODELS",
		"DEFAULT_SOURCE_LANG", "DEFAULT_TARGET_LANG", "HISTORY_LIMIT",
		"HISTORY_FILE", "LOCAL_MT_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadServerConfigFromEnv(&core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadServerConfigFromEnv: %v", err)
	}

	if cfg.Port != core.DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, core.DefaultPort)
	}
	if cfg.DefaultSource != core.LangEnglish || cfg.DefaultTarget != core.LangUrdu {
		t.Errorf("default direction = %s->%s, want en->ur", cfg.DefaultSource, cfg.DefaultTarget)
	}
	if cfg.HistoryLimit != core.DefaultHistoryLimit {
		t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, core.DefaultHistoryLimit)
	}
	if len(cfg.GeminiModels) != len(provider.DefaultGeminiModels) {
		t.Errorf("GeminiModels should fall back to the default chain")
	}
	if len(cfg.GroqModels) != len(provider.DefaultGroqModels) {
		t.Errorf("GroqModels should fall back to the default chain")
	}
	if cfg.LocalMTURL != core.DefaultLocalMTURL {
		t.Errorf("LocalMTURL = %q, want default", cfg.LocalMTURL)
	}
	if len(cfg.Credentials) != 0 {
		t.Errorf("expected local-only mode without credential env vars")
	}
}

func TestLoadServerConfigFromEnv_Overrides(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CLIENT_API_KEYS", "ck1,ck2")
	t.Setenv("GEMINI_MODELS", "gemini-2.0-flash")
	t.Setenv("DEFAULT_SOURCE_LANG", "ur")
	t.Setenv("DEFAULT_TARGET_LANG", "en")
	t.Setenv("HISTORY_LIMIT", "5")

	cfg, err := LoadServerConfigFromEnv(&core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadServerConfigFromEnv: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if len(cfg.ClientAPIKeys) != 2 {
		t.Errorf("ClientAPIKeys = %v", cfg.ClientAPIKeys)
	}
	if len(cfg.GeminiModels) != 1 || cfg.GeminiModels[0] != "gemini-2.0-flash" {
		t.Errorf("GeminiModels = %v", cfg.GeminiModels)
	}
	if cfg.DefaultSource != "ur" || cfg.DefaultTarget != "en" {
		t.Errorf("direction = %s->%s", cfg.DefaultSource, cfg.DefaultTarget)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("HistoryLimit = %d", cfg.HistoryLimit)
	}
}
