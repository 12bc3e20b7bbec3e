package chattl

import (
	"strings"
	"testing"
)

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "surrounding whitespace ignored",
			input:    "  Hello World \n",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestRequestCacheKey(t *testing.T) {
	req := TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "de",
		Provider:   ProviderDeepL,
		Formality:  FormalityPreferMore,
	}

	key := RequestCacheKey(req)
	want := CacheKeyExtended(HashText("Hello"), "en", "de", "deepl/prefer_more")
	if key != want {
		t.Errorf("RequestCacheKey() = %q, want %q", key, want)
	}

	other := req
	other.Provider = ProviderMyMemory
	if RequestCacheKey(other) == key {
		t.Error("different providers must not share cache keys")
	}

	noFormality := req
	noFormality.Formality = ""
	if got := RequestCacheKey(noFormality); !strings.HasSuffix(got, ":deepl") {
		t.Errorf("expected bare provider in model slot, got %q", got)
	}
}

func TestMessageFingerprint_Priority(t *testing.T) {
	tests := []struct {
		name     string
		src      FingerprintSource
		expected string
	}{
		{
			name:     "container timestamp wins",
			src:      FingerprintSource{ContainerTS: "1700.1", ContainerID: "c1", NodeTS: "9", NodeID: "n1", Text: "hi there"},
			expected: "ts_1700.1",
		},
		{
			name:     "container id",
			src:      FingerprintSource{ContainerID: "message-42", NodeTS: "9", Text: "hi there"},
			expected: "id_message-42",
		},
		{
			name:     "node timestamp",
			src:      FingerprintSource{NodeTS: "9", NodeID: "n1"},
			expected: "ts_9",
		},
		{
			name:     "node id",
			src:      FingerprintSource{NodeID: "n1", AncestorTS: "5"},
			expected: "id_n1",
		},
		{
			name:     "ancestor timestamp",
			src:      FingerprintSource{AncestorTS: "5", Text: "hello"},
			expected: "ts_5",
		},
		{
			name:     "nothing to go on",
			src:      FingerprintSource{Sender: "alice", Text: "   "},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageFingerprint(tt.src); got != tt.expected {
				t.Errorf("MessageFingerprint() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMessageFingerprint_ContentHash(t *testing.T) {
	a := MessageFingerprint(FingerprintSource{Sender: "alice", Text: "good morning"})
	b := MessageFingerprint(FingerprintSource{Sender: "alice", Text: "  good morning "})
	c := MessageFingerprint(FingerprintSource{Sender: "bob", Text: "good morning"})

	if !strings.HasPrefix(a, "combined_") {
		t.Fatalf("expected combined_ prefix, got %q", a)
	}
	if a != b {
		t.Errorf("whitespace should not change the fingerprint: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different senders should produce different fingerprints")
	}
}

func TestMessageFingerprint_OnlyLeadingTextMatters(t *testing.T) {
	prefix := strings.Repeat("x", 100)
	a := MessageFingerprint(FingerprintSource{Text: prefix + " tail one"})
	b := MessageFingerprint(FingerprintSource{Text: prefix + " tail two"})

	if a != b {
		t.Errorf("text beyond the first 100 characters should be ignored: %q vs %q", a, b)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"hello", 3, "hel"},
		{"hello", 10, "hello"},
		{"こんにちは", 2, "こん"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := TruncateRunes(tt.input, tt.n); got != tt.expected {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
	}
}

func TestTextLength(t *testing.T) {
	if got := TextLength("日本"); got != 2 {
		t.Errorf("TextLength() = %d, want 2", got)
	}
}
