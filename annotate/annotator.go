package annotate

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/settings"
)

// ErrUnknownMessage is returned by Reveal for a fingerprint no scan produced.
var ErrUnknownMessage = errors.New("annotate: unknown message")

// State is the translation state of an annotation.
type State int

const (
	StateUntranslated State = iota
	StateTranslating
	StateTranslated
	StateFailed
)

var stateNames = map[State]string{
	StateUntranslated: "untranslated",
	StateTranslating:  "translating",
	StateTranslated:   "translated",
	StateFailed:       "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Annotation is the translation attached to one incoming message.
type Annotation struct {
	ID                  string
	SourceText          string
	State               State
	Visible             bool
	Result              string
	NoTranslationNeeded bool
}

// Translator translates a received message into the user's language.
// *compose.Controller implements it through the shared request queue.
type Translator interface {
	TranslateIncoming(ctx context.Context, text string) (string, error)
}

type entry struct {
	Annotation
	node MessageNode
	gen  uint64
}

// Annotator tracks the annotations of a document by message fingerprint.
type Annotator struct {
	translator Translator
	log        pslog.Logger

	mu       sync.Mutex
	messages settings.Messages
	dir      string
	entries  map[string]*entry
	order    []string
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithMessages sets the UI catalog used for labels.
func WithMessages(m settings.Messages) Option {
	return func(a *Annotator) {
		if m != nil {
			a.messages = m
		}
	}
}

// WithLanguage sets the language translations are rendered in, which
// decides their text direction.
func WithLanguage(lang string) Option {
	return func(a *Annotator) {
		a.dir = chattl.GetDirection(lang)
	}
}

// WithLogger sets the logger.
func WithLogger(log pslog.Logger) Option {
	return func(a *Annotator) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an annotator translating through t.
func New(t Translator, opts ...Option) *Annotator {
	a := &Annotator{
		translator: t,
		log:        pslog.Ctx(context.Background()),
		messages:   settings.Catalog("en"),
		dir:        "ltr",
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scan annotates every message of doc that does not carry an annotation yet.
// Scanning the same document again is a no-op for messages already annotated.
func (a *Annotator) Scan(doc Document) ScanResult {
	var result ScanResult
	seen := make(map[string]bool)

	a.mu.Lock()
	defer a.mu.Unlock()

	nodes := doc.Messages()
	// Annotated nodes still on the page own their fingerprint.
	for _, node := range nodes {
		if !node.Processed() {
			continue
		}
		if id := chattl.MessageFingerprint(node.Source()); id != "" {
			seen[id] = true
		}
	}

	for _, node := range nodes {
		if node.Processed() {
			result.Unchanged++
			continue
		}

		id := chattl.MessageFingerprint(node.Source())
		if id == "" {
			node.MarkProcessed()
			result.Skipped++
			continue
		}
		if seen[id] {
			node.MarkProcessed()
			result.Duplicates = append(result.Duplicates, id)
			continue
		}

		text := joinSections(node.Sections())
		if chattl.TextLength(text) < chattl.MinTextLength {
			result.Skipped++
			continue
		}
		seen[id] = true

		e, known := a.entries[id]
		if known {
			// The host page recycled the node; the old annotation went with it.
			e.gen++
			e.Annotation = Annotation{ID: id, SourceText: text}
			e.node = node
			result.Replaced = append(result.Replaced, e.Annotation)
		} else {
			e = &entry{Annotation: Annotation{ID: id, SourceText: text}, node: node}
			a.entries[id] = e
			a.order = append(a.order, id)
			result.Added = append(result.Added, e.Annotation)
		}

		node.MarkProcessed()
		node.Render(a.view(e))
	}

	if result.HasChanges() {
		a.log.Debug("messages annotated", "added", len(result.Added), "replaced", len(result.Replaced))
	}
	return result
}

// Reveal toggles the visibility of annotation id. The first time it becomes
// visible the message is translated; a failed translation is retried by the
// next reveal. A reveal while a translation is running only toggles
// visibility.
func (a *Annotator) Reveal(ctx context.Context, id string) (Annotation, error) {
	a.mu.Lock()
	e, ok := a.entries[id]
	if !ok {
		a.mu.Unlock()
		return Annotation{}, ErrUnknownMessage
	}

	e.Visible = !e.Visible
	start := e.Visible && (e.State == StateUntranslated || e.State == StateFailed)
	if start {
		e.State = StateTranslating
	}
	e.node.Render(a.view(e))
	if !start {
		snap := e.Annotation
		a.mu.Unlock()
		return snap, nil
	}
	gen, text := e.gen, e.SourceText
	a.mu.Unlock()

	translated, err := a.translator.TranslateIncoming(ctx, text)

	a.mu.Lock()
	defer a.mu.Unlock()
	if e.gen != gen || a.entries[id] != e {
		// Replaced or cleared while the request was in flight.
		return e.Annotation, err
	}

	switch {
	case err != nil:
		a.log.Warn("message translation failed", "id", id, "err", err)
		e.State = StateFailed
	case strings.TrimSpace(translated) == "" || translated == text:
		e.State = StateTranslated
		e.NoTranslationNeeded = true
	default:
		e.State = StateTranslated
		e.Result = translated
	}
	e.node.Render(a.view(e))
	return e.Annotation, err
}

// Annotation returns the annotation for id.
func (a *Annotator) Annotation(id string) (Annotation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[id]
	if !ok {
		return Annotation{}, false
	}
	return e.Annotation, true
}

// Annotations returns every annotation in the order first seen.
func (a *Annotator) Annotations() []Annotation {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Annotation, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.entries[id].Annotation)
	}
	return out
}

// Clear removes every annotation from the page and forgets them.
func (a *Annotator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range a.order {
		a.entries[id].node.Clear()
	}
	a.entries = make(map[string]*entry)
	a.order = nil
}

// SetMessages switches the label language. Visible annotations are re-rendered.
func (a *Annotator) SetMessages(m settings.Messages) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m == nil {
		return
	}
	a.messages = m
	for _, id := range a.order {
		e := a.entries[id]
		e.node.Render(a.view(e))
	}
}

func (a *Annotator) view(e *entry) View {
	v := View{State: e.State, Visible: e.Visible}
	switch e.State {
	case StateUntranslated:
		v.Label = a.messages.Get(settings.MsgClickToTranslate)
	case StateTranslating:
		v.Text = a.messages.Get(settings.MsgTranslating)
	case StateFailed:
		v.Text = a.messages.Get(settings.MsgTranslationError)
	case StateTranslated:
		if e.NoTranslationNeeded {
			v.Text = a.messages.Get(settings.MsgNoTranslation)
			break
		}
		v.Label = a.messages.Get(settings.MsgTranslationLabel)
		v.Text = e.Result
		v.Dir = a.dir
	}
	return v
}

func joinSections(sections []string) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
