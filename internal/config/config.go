package config

import (
	"os"
	"time"

	"translatorgo/internal/core"
	"translatorgo/internal/provider"
	"translatorgo/internal/util"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port    string
	GinMode string

	ClientAPIKeys []string

	Credentials  []core.Credential
	GeminiModels []string
	GroqModels   []string

	DefaultSource string
	DefaultTarget string

	HistoryLimit    int
	HistoryFilePath string

	LocalMTURL string

	HTTPClientSettings HTTPClientSettings

	Storage core.StorageInterface
	Logger  core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// LoadServerConfigFromEnv loads server config from environment variables.
// Missing credentials are not fatal: without any, every request routes
// straight to the local tier.
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	clientAPIKeys := util.ParseEnvList(os.Getenv("CLIENT_API_KEYS"))
	if len(clientAPIKeys) == 0 {
		logger.Warn("CLIENT_API_KEYS environment variable is empty")
	} else {
		logger.Info("Loaded %d client API keys", len(clientAPIKeys))
	}

	credentials := LoadCredentialsFromEnv()
	if len(credentials) == 0 {
		logger.Warn("No provider credentials configured, running in local-only mode")
	} else {
		logger.Info("Loaded %d provider credentials", len(credentials))
	}

	geminiModels := util.ParseEnvList(os.Getenv("GEMINI_MODELS"))
	if len(geminiModels) == 0 {
		geminiModels = provider.DefaultGeminiModels
	}
	groqModels := util.ParseEnvList(os.Getenv("GROQ_MODELS"))
	if len(groqModels) == 0 {
		groqModels = provider.DefaultGroqModels
	}

	config := ServerConfig{
		Port:               util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:            util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		ClientAPIKeys:      clientAPIKeys,
		Credentials:        credentials,
		GeminiModels:       geminiModels,
		GroqModels:         groqModels,
		DefaultSource:      util.GetEnvWithDefault("DEFAULT_SOURCE_LANG", core.LangEnglish),
		DefaultTarget:      util.GetEnvWithDefault("DEFAULT_TARGET_LANG", core.LangUrdu),
		HistoryLimit:       util.GetEnvIntWithDefault("HISTORY_LIMIT", core.DefaultHistoryLimit),
		HistoryFilePath:    util.GetEnvWithDefault("HISTORY_FILE", core.HistoryFilePath),
		LocalMTURL:         util.GetEnvWithDefault("LOCAL_MT_URL", core.DefaultLocalMTURL),
		HTTPClientSettings: DefaultHTTPClientSettings(),
	}

	return config, nil
}

// LoadCredentialsFromEnv builds the ordered credential list. Gemini keys
// come first, then Groq keys; within a provider the configured order is
// preserved. GEMINI_API_KEY is accepted as a single-key fallback.
func LoadCredentialsFromEnv() []core.Credential {
	var credentials []core.Credential

	geminiKeys := util.ParseEnvList(os.Getenv("GEMINI_API_KEYS"))
	if len(geminiKeys) == 0 {
		geminiKeys = util.ParseEnvList(os.Getenv("GEMINI_API_KEY"))
	}
	for _, key := range geminiKeys {
		credentials = append(credentials, core.Credential{Provider: provider.NameGemini, Key: key})
	}

	for _, key := range util.ParseEnvList(os.Getenv("GROQ_API_KEYS")) {
		credentials = append(credentials, core.Credential{Provider: provider.NameGroq, Key: key})
	}

	return credentials
}
