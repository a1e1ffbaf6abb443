package util

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"trims whitespace", "  hello  ", "hello"},
		{"trims newlines and tabs", "\n\thello\n", "hello"},
		{"curly double quotes", "He said “hello” to me", `He said "hello" to me`},
		{"curly single quotes", "it’s ‘fine’", "it's 'fine'"},
		{"mixed", "  “hello” and ‘hi’  ", `"hello" and 'hi'`},
		{"empty", "", ""},
		{"whitespace only", "   \n\t  ", ""},
		{"urdu untouched", "ہیلو دنیا", "ہیلو دنیا"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	input := "  “hello” it’s  "
	once := NormalizeText(input)
	if twice := NormalizeText(once); twice != once {
		t.Errorf("second normalization changed the text: %q -> %q", once, twice)
	}
}

func TestParseEnvList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"multiple", "a,b,c", []string{"a", "b", "c"}},
		{"trims spaces", " a , b ", []string{"a", "b"}},
		{"skips empty segments", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEnvList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseEnvList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseEnvList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("UTIL_TEST_SET", "value")
	if got := GetEnvWithDefault("UTIL_TEST_SET", "fallback"); got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
	if got := GetEnvWithDefault("UTIL_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q, want %q", got, "fallback")
	}
}

func TestGetEnvIntWithDefault(t *testing.T) {
	t.Setenv("UTIL_TEST_INT", "42")
	t.Setenv("UTIL_TEST_BAD", "not-a-number")
	t.Setenv("UTIL_TEST_NEG", "-5")

	if got := GetEnvIntWithDefault("UTIL_TEST_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := GetEnvIntWithDefault("UTIL_TEST_BAD", 7); got != 7 {
		t.Errorf("invalid value should fall back, got %d", got)
	}
	if got := GetEnvIntWithDefault("UTIL_TEST_NEG", 7); got != 7 {
		t.Errorf("non-positive value should fall back, got %d", got)
	}
	if got := GetEnvIntWithDefault("UTIL_TEST_MISSING", 7); got != 7 {
		t.Errorf("missing value should fall back, got %d", got)
	}
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	type payload struct {
		Text string `json:"text"`
		N    int    `json:"n"`
	}
	data, err := MarshalJSON(payload{Text: "ہیلو", N: 3})
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var got payload
	if err := UnmarshalJSON(data, &got); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got.Text != "ہیلو" || got.N != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
