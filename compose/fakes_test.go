package compose

import (
	"context"
	"sync"
	"time"
)

// fakeClock fires scheduled tasks only when advanced. Tasks due at the
// same instant run in scheduling order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, running every task that falls due,
// including tasks scheduled by the tasks it runs.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of scheduled tasks that have not run.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeSurface behaves like a host compose box: writes fire input events
// and a native submit goes through the send interception first.
type fakeSurface struct {
	mu      sync.Mutex
	text    string
	session *Session
	sent    []string
	submits []Trigger
}

func (f *fakeSurface) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

func (f *fakeSurface) SetText(text string) {
	f.mu.Lock()
	f.text = text
	s := f.session
	f.mu.Unlock()
	if s != nil {
		s.OnInputChanged(text)
	}
}

// Type simulates the user typing text and returns the session's signal.
func (f *fakeSurface) Type(text string) Signal {
	f.mu.Lock()
	f.text = text
	s := f.session
	f.mu.Unlock()
	return s.OnInputChanged(text)
}

// Press simulates a user submit: the interception runs first and the host
// sends unless the event is suppressed.
func (f *fakeSurface) Press(trigger Trigger) SendOutcome {
	f.mu.Lock()
	s := f.session
	f.mu.Unlock()

	outcome := s.InterceptSend(trigger)
	if !outcome.Suppress() {
		f.send()
	}
	return outcome
}

func (f *fakeSurface) Submit(trigger Trigger) {
	f.mu.Lock()
	f.submits = append(f.submits, trigger)
	f.mu.Unlock()
	f.Press(trigger)
}

// send posts the message and clears the box like the host does.
func (f *fakeSurface) send() {
	f.mu.Lock()
	f.sent = append(f.sent, f.text)
	f.text = ""
	s := f.session
	f.mu.Unlock()
	s.OnInputChanged("")
}

func (f *fakeSurface) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// eventRecorder collects session notifications.
type eventRecorder struct {
	mu       sync.Mutex
	states   []State
	previews []Preview
}

func (r *eventRecorder) StateChanged(_ string, st State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *eventRecorder) PreviewChanged(_ string, p Preview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previews = append(r.previews, p)
}

func (r *eventRecorder) lastPreview() Preview {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.previews) == 0 {
		return Preview{}
	}
	return r.previews[len(r.previews)-1]
}

// translations is a TranslateFunc backed by a map; unknown text errors.
type translations struct {
	mu    sync.Mutex
	table map[string]string
	err   error
	calls []string
}

func (tr *translations) Translate(ctx context.Context, text string) (string, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.calls = append(tr.calls, text)
	if tr.err != nil {
		return "", tr.err
	}
	if out, ok := tr.table[text]; ok {
		return out, nil
	}
	return "<" + text + ">", nil
}

func (tr *translations) Calls() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.calls...)
}

type harness struct {
	clock   *fakeClock
	surface *fakeSurface
	session *Session
	tr      *translations
	events  *eventRecorder
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		clock:   &fakeClock{},
		surface: &fakeSurface{},
		tr:      &translations{table: map[string]string{"Hello": "Hola", "Goodbye": "Adiós"}},
		events:  &eventRecorder{},
	}
	all := append([]Option{WithClock(h.clock), WithEvents(h.events)}, opts...)
	h.session = NewSession("general", h.surface, h.tr.Translate, all...)
	h.surface.session = h.session
	return h
}

// settleSend runs every task of a send sequence.
func (h *harness) settleSend() {
	h.clock.Advance(time.Second)
}
