package settings

import (
	"errors"
	"testing"

	"github.com/ZaguanLabs/chattl"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	if !s.Enabled || !s.TranslateOutgoing {
		t.Error("translation and outgoing translation should be on by default")
	}
	if s.YourLanguage != "en" || s.OthersLanguage != "auto" {
		t.Errorf("unexpected default languages: %q / %q", s.YourLanguage, s.OthersLanguage)
	}
	if s.TranslationProvider != chattl.ProviderDeepL {
		t.Errorf("expected deepl default provider, got %q", s.TranslationProvider)
	}
	if s.Formality != chattl.FormalityPreferMore {
		t.Errorf("expected prefer_more formality, got %q", s.Formality)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		field  string
	}{
		{"deepl without key", func(s *Settings) {}, KeyAPIKey},
		{"chatgpt without key", func(s *Settings) { s.TranslationProvider = chattl.ProviderChatGPT }, KeyAPIKey},
		{"mymemory without key", func(s *Settings) { s.TranslationProvider = chattl.ProviderMyMemory }, ""},
		{"deepl with key", func(s *Settings) { s.APIKey = "abc:fx" }, ""},
		{"unknown provider", func(s *Settings) { s.TranslationProvider = "babel" }, KeyTranslationProvider},
		{"auto as own language", func(s *Settings) {
			s.TranslationProvider = chattl.ProviderMyMemory
			s.YourLanguage = "auto"
		}, KeyYourLanguage},
		{"strict formality", func(s *Settings) {
			s.APIKey = "k"
			s.Formality = "more"
		}, KeyFormality},
		{"unsupported ui language", func(s *Settings) {
			s.APIKey = "k"
			s.UILanguage = "fr"
		}, KeyUILanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.modify(&s)
			err := s.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid settings, got %v", err)
				}
				return
			}
			var cfgErr *chattl.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestApply_ExplicitFalse(t *testing.T) {
	s := Defaults()

	if err := s.Apply(Changes{KeyTranslateOutgoing: {OldValue: true, NewValue: false}}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if s.TranslateOutgoing {
		t.Error("explicit false should be applied")
	}
	if !s.Enabled {
		t.Error("keys not present must not change")
	}
}

func TestApply_CoercesValues(t *testing.T) {
	s := Defaults()

	err := s.Apply(Changes{
		KeyEnabled:             {NewValue: "false"},
		KeyTranslationProvider: {NewValue: "chatgpt"},
		KeyOthersLanguage:      {NewValue: "ja"},
		"unknownKey":           {NewValue: 1},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if s.Enabled {
		t.Error("expected enabled=false from string value")
	}
	if s.TranslationProvider != chattl.ProviderChatGPT || s.OthersLanguage != "ja" {
		t.Errorf("unexpected settings after apply: %+v", s)
	}
}

func TestApply_BadValueLeavesSettingsUntouched(t *testing.T) {
	s := Defaults()

	err := s.Apply(Changes{
		KeyOthersLanguage: {NewValue: "de"},
		KeyEnabled:        {NewValue: "not-a-bool"},
	})
	if err == nil {
		t.Fatal("expected coercion error")
	}
	if s != Defaults() {
		t.Errorf("settings changed despite error: %+v", s)
	}
}

func TestDiff(t *testing.T) {
	old := Defaults()
	updated := old
	updated.Enabled = false
	updated.YourLanguage = "ja"

	changes := Diff(old, updated)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %v", changes)
	}
	if c := changes[KeyEnabled]; c.OldValue != true || c.NewValue != false {
		t.Errorf("unexpected enabled change: %+v", c)
	}
	if !changes.Has(KeyYourLanguage) || changes.Has(KeyOthersLanguage) {
		t.Errorf("unexpected change keys: %v", changes)
	}

	applied := old
	if err := applied.Apply(changes); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != updated {
		t.Errorf("applying a diff should reproduce the update: %+v", applied)
	}
}

func TestRequests(t *testing.T) {
	s := Defaults()
	s.YourLanguage = "en"
	s.OthersLanguage = "ja"
	s.APIKey = "key"

	out := s.OutgoingRequest("hello")
	if out.SourceLang != "en" || out.TargetLang != "ja" {
		t.Errorf("outgoing should go en->ja, got %s->%s", out.SourceLang, out.TargetLang)
	}
	if out.Provider != chattl.ProviderDeepL || out.APIKey != "key" || out.Formality != chattl.FormalityPreferMore {
		t.Errorf("outgoing request missing provider fields: %+v", out)
	}

	in := s.IncomingRequest("こんにちは")
	if in.SourceLang != "ja" || in.TargetLang != "en" {
		t.Errorf("incoming should go ja->en, got %s->%s", in.SourceLang, in.TargetLang)
	}
}

func TestRedacted(t *testing.T) {
	s := Defaults()
	s.APIKey = "secret-1234"

	if got := s.Redacted().APIKey; got != "*******1234" {
		t.Errorf("unexpected redacted key %q", got)
	}
	if s.APIKey != "secret-1234" {
		t.Error("Redacted must not modify the receiver")
	}
}
