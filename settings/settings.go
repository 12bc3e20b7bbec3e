// Package settings holds the user-facing configuration of the translator:
// languages, provider, credentials, and feature toggles. It loads and saves
// the settings file, reports changes as key/value diffs, and carries the
// localized interface strings.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/ZaguanLabs/chattl"
)

// Setting keys, as stored in the settings file and reported in Changes.
const (
	KeyEnabled             = "enabled"
	KeyYourLanguage        = "yourLanguage"
	KeyOthersLanguage      = "othersLanguage"
	KeyTranslationProvider = "translationProvider"
	KeyAPIKey              = "apiKey"
	KeyTranslateOutgoing   = "translateOutgoing"
	KeyFormality           = "formality"
	KeyUILanguage          = "uiLanguage"

	// Legacy keys migrated on load when the new keys are absent.
	legacyTargetLanguage = "targetLanguage"
	legacySourceLanguage = "sourceLanguage"
)

// Keys lists every setting key in display order.
var Keys = []string{
	KeyEnabled,
	KeyYourLanguage,
	KeyOthersLanguage,
	KeyTranslationProvider,
	KeyAPIKey,
	KeyTranslateOutgoing,
	KeyFormality,
	KeyUILanguage,
}

// Settings is the live configuration shared by the compose sessions and the
// message annotator.
type Settings struct {
	Enabled             bool                `yaml:"enabled"`
	YourLanguage        string              `yaml:"yourLanguage"`
	OthersLanguage      string              `yaml:"othersLanguage"`
	TranslationProvider chattl.ProviderName `yaml:"translationProvider"`
	APIKey              string              `yaml:"apiKey"`
	TranslateOutgoing   bool                `yaml:"translateOutgoing"`
	Formality           chattl.Formality    `yaml:"formality"`
	UILanguage          string              `yaml:"uiLanguage"`
}

// Defaults returns the settings used before anything has been saved.
func Defaults() Settings {
	return Settings{
		Enabled:             true,
		YourLanguage:        "en",
		OthersLanguage:      chattl.AutoDetect,
		TranslationProvider: chattl.ProviderDeepL,
		TranslateOutgoing:   true,
		Formality:           chattl.FormalityPreferMore,
		UILanguage:          "en",
	}
}

// Validate reports settings that cannot produce a valid request. A keyed
// provider without an API key is rejected here rather than at request time.
func (s Settings) Validate() error {
	if !s.TranslationProvider.Valid() {
		return &chattl.ConfigError{Field: KeyTranslationProvider, Message: fmt.Sprintf("unknown provider %q", s.TranslationProvider)}
	}
	if s.TranslationProvider.RequiresKey() && strings.TrimSpace(s.APIKey) == "" {
		return &chattl.ConfigError{Field: KeyAPIKey, Message: "required for " + string(s.TranslationProvider)}
	}
	if strings.TrimSpace(s.YourLanguage) == "" || chattl.IsAuto(s.YourLanguage) {
		return &chattl.ConfigError{Field: KeyYourLanguage, Message: "must name a concrete language"}
	}
	if s.Formality != "" && !s.Formality.Valid() {
		return &chattl.ConfigError{Field: KeyFormality, Message: fmt.Sprintf("unsupported value %q", s.Formality)}
	}
	if _, ok := catalogs[s.UILanguage]; !ok {
		return &chattl.ConfigError{Field: KeyUILanguage, Message: fmt.Sprintf("unsupported value %q (supported: %s)", s.UILanguage, strings.Join(SupportedUILanguages(), ", "))}
	}
	return nil
}

// Value returns the setting stored under key.
func (s Settings) Value(key string) (any, bool) {
	switch key {
	case KeyEnabled:
		return s.Enabled, true
	case KeyYourLanguage:
		return s.YourLanguage, true
	case KeyOthersLanguage:
		return s.OthersLanguage, true
	case KeyTranslationProvider:
		return string(s.TranslationProvider), true
	case KeyAPIKey:
		return s.APIKey, true
	case KeyTranslateOutgoing:
		return s.TranslateOutgoing, true
	case KeyFormality:
		return string(s.Formality), true
	case KeyUILanguage:
		return s.UILanguage, true
	}
	return nil, false
}

// Set coerces value and stores it under key.
func (s *Settings) Set(key string, value any) error {
	var err error
	switch key {
	case KeyEnabled:
		s.Enabled, err = cast.ToBoolE(value)
	case KeyTranslateOutgoing:
		s.TranslateOutgoing, err = cast.ToBoolE(value)
	case KeyYourLanguage:
		s.YourLanguage, err = cast.ToStringE(value)
	case KeyOthersLanguage:
		s.OthersLanguage, err = cast.ToStringE(value)
	case KeyAPIKey:
		s.APIKey, err = cast.ToStringE(value)
	case KeyUILanguage:
		s.UILanguage, err = cast.ToStringE(value)
	case KeyTranslationProvider:
		var v string
		v, err = cast.ToStringE(value)
		s.TranslationProvider = chattl.ProviderName(v)
	case KeyFormality:
		var v string
		v, err = cast.ToStringE(value)
		s.Formality = chattl.Formality(v)
	default:
		return &chattl.ConfigError{Field: key, Message: "unknown setting"}
	}
	if err != nil {
		return &chattl.ConfigError{Field: key, Message: err.Error()}
	}
	return nil
}

// Change is one changed setting.
type Change struct {
	OldValue any
	NewValue any
}

// Changes maps setting keys to their change. A key is present only when the
// setting changed, so an explicit false is distinguishable from no change.
type Changes map[string]Change

// Has reports whether key changed.
func (c Changes) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Apply updates s with every key present in changes. Unknown keys are
// ignored; a value that cannot be coerced leaves s untouched and returns
// the error.
func (s *Settings) Apply(changes Changes) error {
	next := *s
	for key, change := range changes {
		if _, known := next.Value(key); !known {
			continue
		}
		if err := next.Set(key, change.NewValue); err != nil {
			return err
		}
	}
	*s = next
	return nil
}

// Diff returns the changes that turn old into updated.
func Diff(old, updated Settings) Changes {
	changes := Changes{}
	for _, key := range Keys {
		before, _ := old.Value(key)
		after, _ := updated.Value(key)
		if before != after {
			changes[key] = Change{OldValue: before, NewValue: after}
		}
	}
	return changes
}

// OutgoingRequest builds the request translating the user's draft from
// their language into the other participants' language.
func (s Settings) OutgoingRequest(text string) chattl.TranslateRequest {
	return s.request(text, s.YourLanguage, s.OthersLanguage)
}

// IncomingRequest builds the request translating a received message into
// the user's language.
func (s Settings) IncomingRequest(text string) chattl.TranslateRequest {
	return s.request(text, s.OthersLanguage, s.YourLanguage)
}

func (s Settings) request(text, source, target string) chattl.TranslateRequest {
	return chattl.TranslateRequest{
		Text:       text,
		SourceLang: source,
		TargetLang: target,
		Provider:   s.TranslationProvider,
		APIKey:     s.APIKey,
		Formality:  s.Formality,
	}
}

// Redacted returns a copy safe for display, with the API key masked.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		key := []rune(s.APIKey)
		if len(key) > 4 {
			s.APIKey = strings.Repeat("*", len(key)-4) + string(key[len(key)-4:])
		} else {
			s.APIKey = strings.Repeat("*", len(key))
		}
	}
	return s
}
