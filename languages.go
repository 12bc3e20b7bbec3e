package chattl

import "strings"

// LanguageNames maps the language codes offered in settings to English names.
// The names are used in the LLM prompt and in CLI output.
var LanguageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
}

// FormalityLanguages lists the target languages for which a formality hint
// changes the output. Other languages silently ignore prefer_* hints.
var FormalityLanguages = map[string]bool{
	"de": true,
	"fr": true,
	"it": true,
	"es": true,
	"nl": true,
	"pl": true,
	"pt": true,
	"ja": true,
	"ru": true,
}

// deeplTargetVariants maps base codes DeepL only accepts with a regional variant as target.
var deeplTargetVariants = map[string]string{
	"en": "EN-US",
	"pt": "PT-PT",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if IsAuto(langCode) {
		return "the detected language"
	}
	if name, ok := LanguageNames[BaseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// IsAuto reports whether the code requests automatic source detection.
func IsAuto(langCode string) bool {
	return strings.EqualFold(strings.TrimSpace(langCode), AutoDetect) || strings.TrimSpace(langCode) == ""
}

// BaseLang extracts the lower-case base language (e.g., "pt" from "pt-BR" or "pt_BR").
func BaseLang(langCode string) string {
	code := NormalizeLocale(strings.TrimSpace(langCode))
	return strings.ToLower(strings.Split(code, "_")[0])
}

// NormalizeLocale converts a language code to the underscore format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// DeepLTargetCode converts a code to DeepL's target_lang format. English and
// Portuguese need a regional variant; everything else is upper-cased.
func DeepLTargetCode(langCode string) string {
	if variant, ok := deeplTargetVariants[strings.ToLower(strings.TrimSpace(langCode))]; ok {
		return variant
	}
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(langCode), "_", "-"))
}

// DeepLSourceCode converts a code to DeepL's source_lang format. Returns ""
// for auto-detection so the parameter can be omitted.
func DeepLSourceCode(langCode string) string {
	if IsAuto(langCode) {
		return ""
	}
	return strings.ToUpper(BaseLang(langCode))
}

// SupportsFormality reports whether a formality hint is meaningful for the target language.
func SupportsFormality(targetLang string) bool {
	return FormalityLanguages[BaseLang(targetLang)]
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[BaseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// SameLanguage reports whether translating between the two codes is a no-op.
// Auto-detected sources never match.
func SameLanguage(sourceLang, targetLang string) bool {
	if IsAuto(sourceLang) {
		return false
	}
	return BaseLang(sourceLang) == BaseLang(targetLang)
}
