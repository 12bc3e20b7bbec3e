package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaguanLabs/chattl"
)

func newDeepLServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Hallo Welt"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDeepL_RequestFormat(t *testing.T) {
	srv := newDeepLServer(t, func(r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key secret:fx" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.PostForm.Get("text"); got != "Hello world" {
			t.Errorf("unexpected text %q", got)
		}
		if got := r.PostForm.Get("target_lang"); got != "DE" {
			t.Errorf("unexpected target_lang %q", got)
		}
		if got := r.PostForm.Get("source_lang"); got != "EN" {
			t.Errorf("unexpected source_lang %q", got)
		}
		if got := r.PostForm.Get("formality"); got != "prefer_more" {
			t.Errorf("unexpected formality %q", got)
		}
	})

	p := NewDeepLProvider(DeepLConfig{FreeURL: srv.URL, ProURL: "http://127.0.0.1:1/unused"})
	result, err := p.Translate(context.Background(), TranslateRequest{
		Text:       "Hello world",
		SourceLang: "en",
		TargetLang: "de",
		APIKey:     "secret:fx",
		Formality:  chattl.FormalityPreferMore,
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result != "Hallo Welt" {
		t.Errorf("unexpected result %q", result)
	}
}

func TestDeepL_AutoSourceAndRegionalTarget(t *testing.T) {
	srv := newDeepLServer(t, func(r *http.Request) {
		if _, ok := r.PostForm["source_lang"]; ok {
			t.Error("source_lang must be omitted for auto-detect")
		}
		if got := r.PostForm.Get("target_lang"); got != "EN-US" {
			t.Errorf("expected EN-US, got %q", got)
		}
		if _, ok := r.PostForm["formality"]; ok {
			t.Error("default formality must not be sent")
		}
	})

	p := NewDeepLProvider(DeepLConfig{ProURL: srv.URL, FreeURL: "http://127.0.0.1:1/unused"})
	_, err := p.Translate(context.Background(), TranslateRequest{
		Text:       "Hallo",
		SourceLang: "auto",
		TargetLang: "en",
		APIKey:     "pro-key",
		Formality:  chattl.FormalityDefault,
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
}

func TestDeepL_RateLimitStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewDeepLProvider(DeepLConfig{ProURL: srv.URL})
	_, err := p.Translate(context.Background(), TranslateRequest{Text: "Hi there", TargetLang: "de", APIKey: "k"})

	if !chattl.IsRateLimited(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestDeepL_ForbiddenIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Wrong key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewDeepLProvider(DeepLConfig{ProURL: srv.URL})
	_, err := p.Translate(context.Background(), TranslateRequest{Text: "Hi there", TargetLang: "de", APIKey: "k"})

	var pe *chattl.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Status != http.StatusForbidden || pe.Retryable {
		t.Errorf("unexpected error %+v", pe)
	}
}

func TestDeepL_EmptyTranslations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"translations":[]}`))
	}))
	defer srv.Close()

	p := NewDeepLProvider(DeepLConfig{ProURL: srv.URL})
	if _, err := p.Translate(context.Background(), TranslateRequest{Text: "Hi there", TargetLang: "de", APIKey: "k"}); err == nil {
		t.Fatal("expected error for empty translations")
	}
}

func TestDeepL_MissingKey(t *testing.T) {
	p := NewDeepLProvider(DeepLConfig{})
	if _, err := p.Translate(context.Background(), TranslateRequest{Text: "Hi there", TargetLang: "de"}); err == nil {
		t.Fatal("expected error without API key")
	}
}
