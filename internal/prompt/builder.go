package prompt

import (
	"fmt"
	"strings"

	"translatorgo/internal/core"
)

// systemDirective is the persona instruction sent to every remote provider.
// The silent-review steps bias the model toward idiomatic, non-literal output.
const systemDirective = `You are a professional English ↔ Urdu translator.

1. Translate the input text focusing on semantic meaning and cultural nuance.
2. Silently review the translation: Does it sound human? Is the flow correct? Does it match the context?
3. Enhance and correct any awkward or literal phrasing internally.`

const plainOutputDirective = `Output ONLY the final, polished translation. No explanations or extra sentences.`

const insightOutputDirective = `Respond in exactly this format:
` + core.TranslationMarker + `<the final, polished translation>
` + core.InsightMarker + `<one short note, at most 25 words, on a nuance you preserved>
Nothing else.`

// examplePair is one few-shot idiom example.
type examplePair struct {
	source string
	target string
}

// Idiom pairs per direction, chosen to steer providers away from
// word-for-word renderings.
var (
	examplesEnUr = []examplePair{
		{"It's raining cats and dogs.", "موسلا دھار بارش ہو رہی ہے۔"},
		{"Break a leg!", "خوب کامیابی ملے!"},
	}
	examplesUrEn = []examplePair{
		{"دل باغ باغ ہو گیا۔", "I was overjoyed."},
		{"اب پچھتائے کیا ہوت جب چڑیاں چگ گئیں کھیت۔", "There is no use crying over spilt milk."},
	}
)

// Builder constructs the instruction text sent to a remote provider.
type Builder struct {
	// WithInsight switches the output-format directive to the two-part
	// [TRANSLATION]/[INSIGHT] form.
	WithInsight bool
}

// Prompt is a built instruction, split into the system-instruction part and
// the user part. Providers without a system-instruction field receive
// Combined() as a single string.
type Prompt struct {
	System string
	User   string
}

// Combined joins system and user parts for providers lacking a separate
// system-instruction field.
func (p Prompt) Combined() string {
	return p.System + "\n\n" + p.User
}

// Build produces the instruction for one translation attempt. The text is
// expected to be normalized already; context beyond the last few turns is
// never included, bounding prompt size regardless of session length.
func (b *Builder) Build(source, target string, tone core.Tone, context []core.Turn, text string) Prompt {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Translate this text from %s to %s.\n", source, target)
	fmt.Fprintf(&sb, "Voice tone: %s.\n", tone)

	sb.WriteString("\nExamples of idiomatic translation:\n")
	for _, ex := range examplesFor(source) {
		fmt.Fprintf(&sb, "%s -> %s\n", ex.source, ex.target)
	}

	if len(context) > 0 {
		sb.WriteString("\nBackground Context:\n")
		for _, turn := range lastTurns(context, core.ContextWindowTurns) {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	fmt.Fprintf(&sb, "\nInput Text: %s\n", text)
	if b.WithInsight {
		sb.WriteString(insightOutputDirective)
	} else {
		sb.WriteString("Final Translation:")
	}

	system := systemDirective + "\n\n"
	if b.WithInsight {
		system += insightOutputDirective
	} else {
		system += plainOutputDirective
	}

	return Prompt{System: system, User: sb.String()}
}

func examplesFor(source string) []examplePair {
	if source == core.LangUrdu {
		return examplesUrEn
	}
	return examplesEnUr
}

func lastTurns(context []core.Turn, n int) []core.Turn {
	if len(context) <= n {
		return context
	}
	return context[len(context)-n:]
}

// ParseResponse applies the output-format contract to a raw provider
// response. With both section markers present, the response is split once on
// the insight marker; the first segment (marker stripped, trimmed) is the
// translation and the remainder (trimmed) is the insight. Without markers
// the whole trimmed response is the translation.
func ParseResponse(raw string) core.TranslationResult {
	if strings.Contains(raw, core.TranslationMarker) && strings.Contains(raw, core.InsightMarker) {
		parts := strings.SplitN(raw, core.InsightMarker, 2)
		translation := strings.Replace(parts[0], core.TranslationMarker, "", 1)
		return core.TranslationResult{
			Translation: strings.TrimSpace(translation),
			Insight:     strings.TrimSpace(parts[1]),
		}
	}

	return core.TranslationResult{Translation: strings.TrimSpace(raw)}
}
