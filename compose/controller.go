package compose

import (
	"context"
	"sync"

	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/settings"
)

// Enqueuer submits a translation request and waits for its result.
// *chattl.RequestQueue implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, req chattl.TranslateRequest) (string, error)
}

// Controller owns the compose sessions of every attached surface, keyed by
// surface id, and the live settings they share. All translation goes
// through a single queue.
type Controller struct {
	queue       Enqueuer
	sessionOpts []Option
	log         pslog.Logger

	mu        sync.Mutex
	settings  settings.Settings
	sessions  map[string]*Session
	onDisable []func()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSessionOptions applies opts to every session the controller creates.
func WithSessionOptions(opts ...Option) ControllerOption {
	return func(c *Controller) {
		c.sessionOpts = append(c.sessionOpts, opts...)
	}
}

// WithControllerLogger sets the logger for the controller and its sessions.
func WithControllerLogger(log pslog.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// NewController creates a controller translating through queue with the given settings.
func NewController(queue Enqueuer, s settings.Settings, opts ...ControllerOption) *Controller {
	c := &Controller{
		queue:    queue,
		settings: s,
		sessions: make(map[string]*Session),
		log:      pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach creates the session for surface id. An existing session for the
// same id is reset and replaced, since its surface is gone. opts apply after
// the controller's session options.
func (c *Controller) Attach(id string, surface Surface, opts ...Option) *Session {
	c.mu.Lock()
	s := c.settings
	old := c.sessions[id]
	all := append([]Option{
		WithLogger(c.log),
		WithEnabled(s.Enabled),
		WithTranslateOutgoing(s.TranslateOutgoing),
		WithMessages(settings.Catalog(s.UILanguage)),
	}, c.sessionOpts...)
	session := NewSession(id, surface, c.TranslateOutgoing, append(all, opts...)...)
	c.sessions[id] = session
	c.mu.Unlock()

	if old != nil {
		old.Reset()
	}
	c.log.Debug("compose surface attached", "surface", id)
	return session
}

// Session returns the session for surface id.
func (c *Controller) Session(id string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	return s, ok
}

// Detach resets and forgets the session for surface id.
func (c *Controller) Detach(id string) {
	c.mu.Lock()
	s := c.sessions[id]
	delete(c.sessions, id)
	c.mu.Unlock()

	if s != nil {
		s.Reset()
	}
}

// Settings returns the live settings.
func (c *Controller) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// OnDisable registers fn to run when the feature is switched off, after
// every session has been reset.
func (c *Controller) OnDisable(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisable = append(c.onDisable, fn)
}

// ApplyChanges applies a settings change notification and pushes the
// affected fields to every session.
func (c *Controller) ApplyChanges(changes settings.Changes) error {
	c.mu.Lock()
	if err := c.settings.Apply(changes); err != nil {
		c.mu.Unlock()
		return err
	}
	s := c.settings
	sessions := make([]*Session, 0, len(c.sessions))
	for _, session := range c.sessions {
		sessions = append(sessions, session)
	}
	hooks := append([]func(){}, c.onDisable...)
	c.mu.Unlock()

	for _, session := range sessions {
		if changes.Has(settings.KeyEnabled) {
			session.SetEnabled(s.Enabled)
		}
		if changes.Has(settings.KeyTranslateOutgoing) {
			session.SetTranslateOutgoing(s.TranslateOutgoing)
		}
		if changes.Has(settings.KeyUILanguage) {
			session.SetMessages(settings.Catalog(s.UILanguage))
		}
	}

	if changes.Has(settings.KeyEnabled) && !s.Enabled {
		for _, fn := range hooks {
			fn()
		}
	}
	c.log.Info("settings applied", "keys", len(changes), "enabled", s.Enabled, "translateOutgoing", s.TranslateOutgoing)
	return nil
}

// TranslateOutgoing translates a draft from the user's language into the
// other participants' language. A draft whose target is auto-detect or the
// same language is returned unchanged.
func (c *Controller) TranslateOutgoing(ctx context.Context, text string) (string, error) {
	req := c.Settings().OutgoingRequest(text)
	if chattl.IsAuto(req.TargetLang) || chattl.SameLanguage(req.SourceLang, req.TargetLang) {
		return text, nil
	}
	return c.queue.Enqueue(ctx, req)
}

// TranslateIncoming translates a received message into the user's language.
func (c *Controller) TranslateIncoming(ctx context.Context, text string) (string, error) {
	req := c.Settings().IncomingRequest(text)
	if chattl.SameLanguage(req.SourceLang, req.TargetLang) {
		return text, nil
	}
	return c.queue.Enqueue(ctx, req)
}
