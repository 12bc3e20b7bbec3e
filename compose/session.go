// Package compose implements the compose-box state machine: it decides when
// a draft is translated, when translation is suppressed, and when the session
// resets, and it intercepts sends to substitute the translated draft.
package compose

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/settings"
)

var (
	// ErrNoTranslation is returned by AcceptTranslation when no translation is available.
	ErrNoTranslation = errors.New("no translation to accept")
	// ErrSending is returned by AcceptTranslation while a send is in flight.
	ErrSending = errors.New("send in progress")
)

// TranslateFunc translates a draft. It is called from a timer goroutine and
// may block; ctx is cancelled when the session moves on.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// Config holds the session's fixed delays.
type Config struct {
	Debounce    time.Duration // Quiet period after the last keystroke before translating
	SettleDelay time.Duration // How long a programmatic substitution suppresses input events
	SubmitDelay time.Duration // Wait after substitution before re-dispatching the submit
	ResetDelay  time.Duration // Wait after the re-dispatched submit before resetting
}

// DefaultConfig returns the default delays: 1s debounce, 50ms settle and
// submit delays, 100ms reset delay.
func DefaultConfig() Config {
	return Config{
		Debounce:    time.Second,
		SettleDelay: 50 * time.Millisecond,
		SubmitDelay: 50 * time.Millisecond,
		ResetDelay:  100 * time.Millisecond,
	}
}

// Snapshot is a comparable view of a session's observable state.
type Snapshot struct {
	State              State
	CurrentText        string
	PendingTranslation string
	Accepted           bool
	ProgrammaticEdit   bool
	Sending            bool
	DebounceScheduled  bool
}

// Session is the state machine for one compose box.
type Session struct {
	id        string
	surface   Surface
	translate TranslateFunc
	cfg       Config
	clock     Clock
	events    Events
	log       pslog.Logger

	mu                sync.Mutex
	enabled           bool
	translateOutgoing bool
	messages          settings.Messages

	state        State
	currentText  string
	pending      string
	accepted     bool
	programmatic bool
	sending      bool
	preview      Preview

	// generation invalidates debounce fires and in-flight results; epoch
	// invalidates every other scheduled task on Reset.
	generation uint64
	epoch      uint64

	debounce Timer
	settle   Timer
	submit   Timer
	reset    Timer
	inflight context.CancelFunc

	notes []func()
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session delays.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithClock sets the clock used for every scheduled task.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithEvents sets the observer for state and preview changes.
func WithEvents(events Events) Option {
	return func(s *Session) {
		if events != nil {
			s.events = events
		}
	}
}

// WithLogger sets the logger for translation failures and transitions.
func WithLogger(log pslog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMessages sets the catalog for preview labels.
func WithMessages(m settings.Messages) Option {
	return func(s *Session) {
		if m != nil {
			s.messages = m
		}
	}
}

// WithEnabled sets the initial feature toggle.
func WithEnabled(enabled bool) Option {
	return func(s *Session) {
		s.enabled = enabled
	}
}

// WithTranslateOutgoing sets whether sends are intercepted.
func WithTranslateOutgoing(on bool) Option {
	return func(s *Session) {
		s.translateOutgoing = on
	}
}

// NewSession creates an idle session for the compose box identified by id.
func NewSession(id string, surface Surface, translate TranslateFunc, opts ...Option) *Session {
	s := &Session{
		id:                id,
		surface:           surface,
		translate:         translate,
		cfg:               DefaultConfig(),
		clock:             RealClock{},
		events:            NopEvents{},
		log:               pslog.Ctx(context.Background()),
		enabled:           true,
		translateOutgoing: true,
		messages:          settings.Catalog("en"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("surface", id)
	return s
}

// ID returns the surface identifier.
func (s *Session) ID() string {
	return s.id
}

// OnInputChanged handles a text-changed or focus notification from the surface.
func (s *Session) OnInputChanged(text string) Signal {
	s.lock()
	defer s.unlock()

	if !s.enabled {
		return SignalNone
	}
	if s.programmatic {
		return SignalSkipProgrammatic
	}
	if text == s.currentText {
		return SignalSkipSameValue
	}

	s.currentText = text
	s.cancelDebounce()

	if strings.TrimSpace(text) == "" {
		s.accepted = false
		s.pending = ""
		s.setPreview(Preview{Status: PreviewHidden})
		if !s.sending {
			s.setState(StateIdle)
		}
		return SignalResetEmpty
	}

	if s.sending {
		return SignalSkipSending
	}
	if s.accepted {
		return SignalSkipAccepted
	}

	// A translation of earlier text must never be sent for this draft.
	s.pending = ""
	s.setPreview(Preview{Status: PreviewHidden})
	s.setState(StateDebounced)

	gen := s.generation
	s.debounce = s.clock.AfterFunc(s.cfg.Debounce, func() {
		s.fireDebounce(gen)
	})
	return SignalTranslate
}

func (s *Session) fireDebounce(gen uint64) {
	s.lock()
	if gen != s.generation || s.state != StateDebounced {
		s.unlock()
		return
	}
	s.debounce = nil

	text := strings.TrimSpace(s.currentText)
	if chattl.TextLength(text) < chattl.MinTextLength {
		s.setPreview(Preview{Status: PreviewHidden})
		s.setState(StateIdle)
		s.unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.inflight = cancel
	s.setPreview(Preview{Status: PreviewLoading, Text: s.messages.Get(settings.MsgTranslating)})
	s.unlock()

	result, err := s.translate(ctx, text)
	cancel()
	s.applyResult(gen, text, result, err)
}

// applyResult stores a finished translation unless the session moved on
// while it was in flight.
func (s *Session) applyResult(gen uint64, source, result string, err error) {
	s.lock()
	defer s.unlock()

	if gen != s.generation || s.state != StateDebounced {
		s.log.Debug("discarding stale translation", "state", s.state.String())
		return
	}
	s.inflight = nil

	switch {
	case err != nil:
		s.log.Warn("draft translation failed, keeping original", "err", err)
		s.pending = source
		s.setPreview(Preview{Status: PreviewError, Text: s.messages.Get(settings.MsgTranslationError)})
	case strings.TrimSpace(result) == "" || result == source:
		s.pending = source
		s.setPreview(Preview{Status: PreviewNoTranslation, Text: s.messages.Get(settings.MsgNoTranslation)})
	default:
		s.pending = result
		s.setPreview(Preview{Status: PreviewReady, Label: s.previewLabel(), Text: result})
	}
	s.setState(StatePreviewReady)
}

func (s *Session) previewLabel() string {
	if s.translateOutgoing {
		return s.messages.Get(settings.MsgWillSend)
	}
	return s.messages.Get(settings.MsgPreview)
}

// AcceptTranslation replaces the draft with the pending translation and
// marks it accepted, so later edits are not retranslated.
func (s *Session) AcceptTranslation() error {
	s.lock()
	if s.sending {
		s.unlock()
		return ErrSending
	}
	if s.pending == "" {
		s.unlock()
		return ErrNoTranslation
	}

	text := s.pending
	s.cancelDebounce()
	s.accepted = true
	s.currentText = text
	s.beginProgrammatic()
	s.setPreview(Preview{Status: PreviewHidden})
	s.setState(StateAccepted)
	s.unlock()

	s.surface.SetText(text)
	return nil
}

// InterceptSend handles a submit action. When a translation differs from
// the raw draft, the draft is substituted and the submit re-dispatched;
// the caller must then suppress the original event (see SendOutcome.Suppress).
func (s *Session) InterceptSend(trigger Trigger) SendOutcome {
	raw := strings.TrimSpace(s.surface.Text())

	s.lock()
	if !s.enabled || !s.translateOutgoing {
		s.unlock()
		return SendIgnored
	}
	if s.sending {
		s.unlock()
		return SendAlreadySending
	}

	if s.pending == "" || s.pending == raw || raw == "" {
		ep := s.epoch
		s.schedule(&s.reset, s.cfg.SubmitDelay, func() { s.resetEpoch(ep) })
		s.unlock()
		return SendPassthrough
	}

	translation := s.pending
	s.cancelDebounce()
	s.sending = true
	s.currentText = translation
	s.beginProgrammatic()
	s.setPreview(Preview{Status: PreviewHidden})
	s.setState(StateSending)

	ep := s.epoch
	s.schedule(&s.submit, s.cfg.SubmitDelay, func() { s.dispatchSubmit(ep, trigger) })
	s.log.Info("substituting translated draft", "trigger", trigger.String())
	s.unlock()

	s.surface.SetText(translation)
	return SendSubstituted
}

func (s *Session) dispatchSubmit(ep uint64, trigger Trigger) {
	s.lock()
	if ep != s.epoch || !s.sending {
		s.unlock()
		return
	}
	s.submit = nil
	s.unlock()

	s.surface.Submit(trigger)

	s.lock()
	if ep == s.epoch {
		s.schedule(&s.reset, s.cfg.ResetDelay, func() { s.resetEpoch(ep) })
	}
	s.unlock()
}

// beginProgrammatic opens the window in which input events caused by the
// session's own substitution are ignored. Called with the lock held.
func (s *Session) beginProgrammatic() {
	s.programmatic = true
	ep := s.epoch
	s.schedule(&s.settle, s.cfg.SettleDelay, func() {
		s.lock()
		defer s.unlock()
		if ep == s.epoch {
			s.programmatic = false
			s.settle = nil
		}
	})
}

// Reset cancels every scheduled task and restores a freshly constructed state.
func (s *Session) Reset() {
	s.lock()
	defer s.unlock()
	s.resetLocked()
}

func (s *Session) resetEpoch(ep uint64) {
	s.lock()
	defer s.unlock()
	if ep == s.epoch {
		s.resetLocked()
	}
}

func (s *Session) resetLocked() {
	s.cancelDebounce()
	for _, slot := range []*Timer{&s.settle, &s.submit, &s.reset} {
		if *slot != nil {
			(*slot).Stop()
			*slot = nil
		}
	}
	s.epoch++

	s.currentText = ""
	s.pending = ""
	s.accepted = false
	s.programmatic = false
	s.sending = false
	s.setPreview(Preview{Status: PreviewHidden})
	s.setState(StateIdle)
}

// SetEnabled toggles the feature. Disabling resets the session.
func (s *Session) SetEnabled(enabled bool) {
	s.lock()
	defer s.unlock()
	s.enabled = enabled
	if !enabled {
		s.resetLocked()
	}
}

// SetTranslateOutgoing toggles send interception and the preview label.
func (s *Session) SetTranslateOutgoing(on bool) {
	s.lock()
	defer s.unlock()
	s.translateOutgoing = on
	if s.preview.Status == PreviewReady {
		p := s.preview
		p.Label = s.previewLabel()
		s.setPreview(p)
	}
}

// SetMessages switches the preview language.
func (s *Session) SetMessages(m settings.Messages) {
	s.lock()
	defer s.unlock()
	if m != nil {
		s.messages = m
	}
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:              s.state,
		CurrentText:        s.currentText,
		PendingTranslation: s.pending,
		Accepted:           s.accepted,
		ProgrammaticEdit:   s.programmatic,
		Sending:            s.sending,
		DebounceScheduled:  s.debounce != nil,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Preview returns the current preview content.
func (s *Session) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// cancelDebounce stops the pending debounce and invalidates any translation
// in flight. Called with the lock held.
func (s *Session) cancelDebounce() {
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
	s.generation++
}

func (s *Session) schedule(slot *Timer, d time.Duration, f func()) {
	if *slot != nil {
		(*slot).Stop()
	}
	*slot = s.clock.AfterFunc(d, f)
}

func (s *Session) setState(st State) {
	if st == s.state {
		return
	}
	s.state = st
	id := s.id
	s.notes = append(s.notes, func() { s.events.StateChanged(id, st) })
}

func (s *Session) setPreview(p Preview) {
	if p == s.preview {
		return
	}
	s.preview = p
	id := s.id
	s.notes = append(s.notes, func() { s.events.PreviewChanged(id, p) })
}

func (s *Session) lock() {
	s.mu.Lock()
}

// unlock releases the lock, then delivers the notifications queued while it was held.
func (s *Session) unlock() {
	notes := s.notes
	s.notes = nil
	s.mu.Unlock()
	for _, note := range notes {
		note()
	}
}
