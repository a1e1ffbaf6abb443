package core

import "strings"

// Tone is the requested register of a translation.
type Tone string

// Tone values.
const (
	ToneCasual   Tone = "Casual"
	ToneFormal   Tone = "Formal"
	ToneLiterary Tone = "Literary"
)

// ParseTone normalizes a user-supplied tone value, defaulting to Formal.
func ParseTone(s string) Tone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "casual":
		return ToneCasual
	case "literary":
		return ToneLiterary
	default:
		return ToneFormal
	}
}

// Turn is one entry of a session's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Insight string `json:"insight,omitempty"`
}

// TranslationRequest describes one translation call.
// Source != Target is the caller's responsibility, not enforced here.
type TranslationRequest struct {
	Text    string
	Source  string
	Target  string
	Tone    Tone
	Context []Turn

	// WithInsight requests the two-part [TRANSLATION]/[INSIGHT] output
	// format from remote providers.
	WithInsight bool
}

// TranslationResult is the outcome of a translation call. Insight is empty
// unless the provider responded in the two-part delimited format.
type TranslationResult struct {
	Translation string `json:"translation"`
	Insight     string `json:"insight,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
}

// IsEmpty reports whether the result carries no translation text.
func (r TranslationResult) IsEmpty() bool {
	return r.Translation == ""
}

// Credential identifies one account/quota bucket with a remote provider.
// The key is opaque; Provider names the adapter it belongs to.
type Credential struct {
	Provider string
	Key      string
}

// DisplayName returns a log-safe identifier for the credential.
func (c Credential) DisplayName() string {
	key := c.Key
	if len(key) > 8 {
		key = key[:8] + "..."
	}
	return c.Provider + "/" + key
}
