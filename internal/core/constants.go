package core

// Server defaults
const (
	DefaultPort    = "8080"
	DefaultGinMode = "release"
)

// Language tags
const (
	LangEnglish = "en"
	LangUrdu    = "ur"
)

// History defaults
const (
	DefaultHistoryLimit = 20
	HistoryFilePath     = "data/sessions.json"
	ContextWindowTurns  = 3
)

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Output format markers for the two-part provider response.
const (
	TranslationMarker = "[TRANSLATION]"
	InsightMarker     = "[INSIGHT]"
)

// User-visible error markers emitted by the local fallback tier.
const (
	UnsupportedPairMarker = "⚠️ Unsupported local language pair"
	LocalErrorMarker      = "❌ Translation Error"
)
