package chattl

// ProviderName selects the translation backend for a request.
type ProviderName string

const (
	// ProviderDeepL is the paid high-quality provider. Requires an API key.
	ProviderDeepL ProviderName = "deepl"
	// ProviderChatGPT drives an LLM chat completion with a fixed instruction prompt. Requires an API key.
	ProviderChatGPT ProviderName = "chatgpt"
	// ProviderMyMemory is the keyless public provider.
	ProviderMyMemory ProviderName = "mymemory"
)

// RequiresKey reports whether the provider cannot be called without an API key.
func (p ProviderName) RequiresKey() bool {
	return p == ProviderDeepL || p == ProviderChatGPT
}

// Valid reports whether p names a known provider.
func (p ProviderName) Valid() bool {
	switch p {
	case ProviderDeepL, ProviderChatGPT, ProviderMyMemory:
		return true
	}
	return false
}

// Formality is a provider hint controlling the register of the output.
type Formality string

const (
	// FormalityDefault lets the provider choose.
	FormalityDefault Formality = "default"
	// FormalityPreferMore asks for formal phrasing where the language supports it.
	FormalityPreferMore Formality = "prefer_more"
	// FormalityPreferLess asks for informal phrasing where the language supports it.
	FormalityPreferLess Formality = "prefer_less"
)

// Valid reports whether f is one of the supported formality options.
// The strict "more"/"less" variants are rejected because they fail for
// languages without formality support.
func (f Formality) Valid() bool {
	switch f {
	case FormalityDefault, FormalityPreferMore, FormalityPreferLess:
		return true
	}
	return false
}

// AutoDetect is the source language value that asks the provider to detect it.
const AutoDetect = "auto"

// MinTextLength is the shortest text, in characters, worth sending to a provider.
const MinTextLength = 2

// TranslateRequest contains the parameters for a single translation call.
type TranslateRequest struct {
	Text       string
	SourceLang string // language code or AutoDetect
	TargetLang string
	Provider   ProviderName
	APIKey     string
	Formality  Formality
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}
