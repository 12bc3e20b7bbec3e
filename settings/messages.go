package settings

import (
	"os"
	"strings"
)

// Message keys for interface strings.
const (
	MsgClickToTranslate  = "clickToTranslate"
	MsgTranslating       = "translating"
	MsgTranslationLabel  = "translationLabel"
	MsgNoTranslation     = "noTranslationNeeded"
	MsgTranslationError  = "translationError"
	MsgWillSend          = "willSend"
	MsgPreview           = "preview"
	MsgReplace           = "replace"
	MsgReplaceTitle      = "replaceTitle"
	MsgSettingsSaved     = "settingsSaved"
	MsgAPIKeyRequired    = "apiKeyRequired"
	MsgLanguageAuto      = "langAuto"
	MsgFormalityDefault  = "formalityDefault"
	MsgFormalityMore     = "formalityPreferMore"
	MsgFormalityLess     = "formalityPreferLess"
	MsgInvalidSetting    = "invalidSetting"
	MsgTranslationFailed = "translationFailed"
)

// Messages is a catalog of interface strings for one language.
type Messages map[string]string

var catalogs = map[string]Messages{
	"en": {
		MsgClickToTranslate:  "Click to translate",
		MsgTranslating:       "Translating...",
		MsgTranslationLabel:  "Translation:",
		MsgNoTranslation:     "No translation needed",
		MsgTranslationError:  "Translation error",
		MsgWillSend:          "Will send:",
		MsgPreview:           "Preview:",
		MsgReplace:           "Replace (Ctrl+Enter)",
		MsgReplaceTitle:      "Replace your text with the translation",
		MsgSettingsSaved:     "Settings saved! Changes will apply immediately.",
		MsgAPIKeyRequired:    "Please enter an API key for the selected translation service",
		MsgLanguageAuto:      "Auto-detect",
		MsgFormalityDefault:  "Default",
		MsgFormalityMore:     "Prefer More Formal",
		MsgFormalityLess:     "Prefer More Informal",
		MsgInvalidSetting:    "Invalid setting",
		MsgTranslationFailed: "Translation failed",
	},
	"ja": {
		MsgClickToTranslate:  "クリックして翻訳",
		MsgTranslating:       "翻訳中...",
		MsgTranslationLabel:  "翻訳:",
		MsgNoTranslation:     "翻訳は不要です",
		MsgTranslationError:  "翻訳エラー",
		MsgWillSend:          "送信内容:",
		MsgPreview:           "プレビュー:",
		MsgReplace:           "置き換え (Ctrl+Enter)",
		MsgReplaceTitle:      "入力内容を翻訳で置き換えます",
		MsgSettingsSaved:     "設定が保存されました！変更はすぐに適用されます。",
		MsgAPIKeyRequired:    "選択した翻訳サービスのAPIキーを入力してください",
		MsgLanguageAuto:      "自動検出",
		MsgFormalityDefault:  "デフォルト",
		MsgFormalityMore:     "フォーマル優先",
		MsgFormalityLess:     "カジュアル優先",
		MsgInvalidSetting:    "無効な設定です",
		MsgTranslationFailed: "翻訳に失敗しました",
	},
}

// Catalog returns the interface strings for uiLanguage, falling back to English.
func Catalog(uiLanguage string) Messages {
	if m, ok := catalogs[uiLanguage]; ok {
		return m
	}
	return catalogs["en"]
}

// Get returns the string for key, falling back to English and then to the key itself.
func (m Messages) Get(key string) string {
	if s, ok := m[key]; ok {
		return s
	}
	if s, ok := catalogs["en"][key]; ok {
		return s
	}
	return key
}

// SupportedUILanguages lists the interface languages with a catalog.
func SupportedUILanguages() []string {
	return []string{"en", "ja"}
}

// DetectUILanguage picks the interface language for a locale such as
// "ja-JP" or "ja_JP.UTF-8". Anything other than Japanese gets English.
func DetectUILanguage(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(locale, "ja") {
		return "ja"
	}
	return "en"
}

// localeEnv lists the variables consulted for the interface language,
// highest priority first.
var localeEnv = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// SystemUILanguage picks the interface language from the process locale.
func SystemUILanguage() string {
	for _, key := range localeEnv {
		if v := os.Getenv(key); v != "" {
			return DetectUILanguage(v)
		}
	}
	return "en"
}
