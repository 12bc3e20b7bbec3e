package chattl_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/annotate"
	"github.com/ZaguanLabs/chattl/cache"
	"github.com/ZaguanLabs/chattl/compose"
	"github.com/ZaguanLabs/chattl/provider"
	"github.com/ZaguanLabs/chattl/settings"
)

// Integration tests wiring real components against a fake MyMemory endpoint.

type myMemoryServer struct {
	*httptest.Server
	calls        atomic.Int32
	rateLimitFor atomic.Int32 // answer this many calls with 429
	translations map[string]string
}

func newMyMemoryServer(t *testing.T, translations map[string]string) *myMemoryServer {
	t.Helper()
	s := &myMemoryServer{translations: translations}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if s.rateLimitFor.Load() > 0 {
			s.rateLimitFor.Add(-1)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		q := r.URL.Query().Get("q")
		out, ok := s.translations[q]
		if !ok {
			out = q
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"` + out + `"},"responseStatus":200}`))
	}))
	t.Cleanup(s.Close)
	return s
}

type stack struct {
	server     *myMemoryServer
	queue      *chattl.RequestQueue
	controller *compose.Controller
}

func newStack(t *testing.T, s settings.Settings, translations map[string]string) *stack {
	t.Helper()
	server := newMyMemoryServer(t, translations)
	router := provider.NewRouter(provider.WithProvider(chattl.ProviderMyMemory,
		provider.NewMyMemoryProvider(provider.MyMemoryConfig{URL: server.URL})))

	p := chattl.NewCachedProvider(router, cache.NewInMemoryCache(100, time.Hour))
	q := chattl.NewRequestQueue(p, chattl.WithQueueConfig(chattl.QueueConfig{
		Spacing: time.Millisecond,
		Retry:   chattl.RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond},
	}))
	t.Cleanup(q.Close)

	return &stack{
		server:     server,
		queue:      q,
		controller: compose.NewController(q, s),
	}
}

func chatSettings() settings.Settings {
	s := settings.Defaults()
	s.OthersLanguage = "es"
	s.TranslationProvider = chattl.ProviderMyMemory
	return s
}

type memorySurface struct {
	mu      sync.Mutex
	text    string
	session *compose.Session
	sent    []string
}

func (m *memorySurface) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func (m *memorySurface) SetText(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	m.session.OnInputChanged(text)
}

func (m *memorySurface) Submit(trigger compose.Trigger) {
	if m.session.InterceptSend(trigger).Suppress() {
		return
	}
	m.mu.Lock()
	m.sent = append(m.sent, m.text)
	m.text = ""
	m.mu.Unlock()
	m.session.OnInputChanged("")
}

func (m *memorySurface) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIntegration_ComposeTranslateAndSend(t *testing.T) {
	st := newStack(t, chatSettings(), map[string]string{"Good morning": "Buenos días"})
	cfg := compose.DefaultConfig()
	cfg.Debounce = 10 * time.Millisecond

	surface := &memorySurface{}
	surface.session = st.controller.Attach("general", surface, compose.WithConfig(cfg))

	surface.SetText("Good morning")
	waitFor(t, "preview", func() bool {
		return surface.session.State() == compose.StatePreviewReady
	})
	if got := surface.session.Preview().Text; got != "Buenos días" {
		t.Fatalf("unexpected preview %q", got)
	}

	surface.Submit(compose.TriggerKey)
	waitFor(t, "send", func() bool { return len(surface.Sent()) == 1 })
	if sent := surface.Sent(); sent[0] != "Buenos días" {
		t.Errorf("expected the translation to be sent, got %v", sent)
	}
	waitFor(t, "reset", func() bool { return surface.session.State() == compose.StateIdle })
}

func TestIntegration_RateLimitRetried(t *testing.T) {
	st := newStack(t, chatSettings(), map[string]string{"Thanks": "Gracias"})
	st.server.rateLimitFor.Store(2)

	got, err := st.controller.TranslateOutgoing(context.Background(), "Thanks")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got != "Gracias" {
		t.Errorf("expected Gracias, got %q", got)
	}
	if n := st.server.calls.Load(); n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
}

func TestIntegration_RateLimitExhausted(t *testing.T) {
	st := newStack(t, chatSettings(), nil)
	st.server.rateLimitFor.Store(10)

	_, err := st.controller.TranslateOutgoing(context.Background(), "Thanks")
	var perr *chattl.ProviderError
	if !errors.As(err, &perr) || !perr.RateLimited() {
		t.Fatalf("expected a rate limit error, got %v", err)
	}
	if n := st.server.calls.Load(); n != 4 {
		t.Errorf("expected the first call and 3 retries, got %d", n)
	}
}

func TestIntegration_MissingKeyFallsBackToKeyless(t *testing.T) {
	s := chatSettings()
	s.TranslationProvider = chattl.ProviderDeepL
	st := newStack(t, s, map[string]string{"Thanks": "Gracias"})

	got, err := st.controller.TranslateOutgoing(context.Background(), "Thanks")
	if err != nil || got != "Gracias" {
		t.Fatalf("expected the keyless provider to answer, got %q, %v", got, err)
	}
}

func TestIntegration_AnnotateRevealUsesCache(t *testing.T) {
	st := newStack(t, chatSettings(), map[string]string{"Buenas noches": "Good night"})
	page := `<div data-qa="virtual-list-item"><a data-ts="17.1">now</a>
<div class="c-message__message_blocks" data-qa="message-text"><div class="p-rich_text_section">Buenas noches</div></div></div>`

	doc, err := annotate.ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	a := annotate.New(st.controller)
	st.controller.OnDisable(a.Clear)

	a.Scan(doc)
	ann, err := a.Reveal(context.Background(), "ts_17.1")
	if err != nil || ann.Result != "Good night" {
		t.Fatalf("unexpected reveal %+v, %v", ann, err)
	}

	// The host page re-renders the row; revealing again is served by the cache.
	doc, err = annotate.ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if result := a.Scan(doc); len(result.Replaced) != 1 {
		t.Fatalf("expected a replacement, got %+v", result.Stats())
	}
	if ann, _ := a.Reveal(context.Background(), "ts_17.1"); ann.Result != "Good night" {
		t.Errorf("unexpected reveal after replacement %+v", ann)
	}
	if n := st.server.calls.Load(); n != 1 {
		t.Errorf("expected one provider call, got %d", n)
	}

	if err := st.controller.ApplyChanges(settings.Changes{settings.KeyEnabled: {OldValue: true, NewValue: false}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	out, _ := doc.HTML()
	if strings.Contains(out, "slack-translator-translation") {
		t.Error("disabling should remove annotations")
	}
}
