package settings

import "testing"

func TestCatalog(t *testing.T) {
	if got := Catalog("en").Get(MsgClickToTranslate); got != "Click to translate" {
		t.Errorf("unexpected en string %q", got)
	}
	if got := Catalog("ja").Get(MsgSettingsSaved); got != "設定が保存されました！変更はすぐに適用されます。" {
		t.Errorf("unexpected ja string %q", got)
	}
	if got := Catalog("fr").Get(MsgWillSend); got != "Will send:" {
		t.Errorf("unknown ui language should fall back to English, got %q", got)
	}
	if got := Catalog("en").Get("missing"); got != "missing" {
		t.Errorf("unknown key should return itself, got %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	en := Catalog("en")
	for _, lang := range SupportedUILanguages() {
		m := Catalog(lang)
		for key := range en {
			if _, ok := m[key]; !ok {
				t.Errorf("catalog %q missing key %q", lang, key)
			}
		}
	}
}

func TestDetectUILanguage(t *testing.T) {
	tests := map[string]string{
		"ja":          "ja",
		"ja-JP":       "ja",
		"ja_JP.UTF-8": "ja",
		"en-US":       "en",
		"de":          "en",
		"":            "en",
	}
	for locale, want := range tests {
		if got := DetectUILanguage(locale); got != want {
			t.Errorf("DetectUILanguage(%q) = %q, want %q", locale, got, want)
		}
	}
}
