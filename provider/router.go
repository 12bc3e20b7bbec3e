package provider

import (
	"context"

	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
)

// Router dispatches each request to the backend it names. Keyed backends
// requested without a key, and unknown names, fall back to the keyless
// backend. Text shorter than chattl.MinTextLength is returned unchanged.
type Router struct {
	providers map[chattl.ProviderName]Provider
	fallback  chattl.ProviderName
	log       pslog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithProvider registers p for name, replacing the default backend.
func WithProvider(name chattl.ProviderName, p Provider) RouterOption {
	return func(r *Router) {
		r.providers[name] = p
	}
}

// WithRouterLogger sets the logger for fallback decisions.
func WithRouterLogger(log pslog.Logger) RouterOption {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRouter creates a router over the default DeepL, OpenAI and MyMemory backends.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		providers: map[chattl.ProviderName]Provider{
			chattl.ProviderDeepL:    NewDeepLProvider(DeepLConfig{}),
			chattl.ProviderChatGPT:  NewOpenAIProvider(OpenAIConfig{}),
			chattl.ProviderMyMemory: NewMyMemoryProvider(MyMemoryConfig{}),
		},
		fallback: chattl.ProviderMyMemory,
		log:      pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the backend name that will serve req.
func (r *Router) Route(req TranslateRequest) chattl.ProviderName {
	name := req.Provider
	if !name.Valid() || (name.RequiresKey() && req.APIKey == "") {
		return r.fallback
	}
	return name
}

// Translate implements Provider.
func (r *Router) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if chattl.TextLength(req.Text) < chattl.MinTextLength {
		return req.Text, nil
	}

	name := r.Route(req)
	if name != req.Provider {
		r.log.Debug("provider unavailable, using fallback", "requested", req.Provider, "using", name)
		req.Provider = name
	}

	p, ok := r.providers[name]
	if !ok {
		return "", &chattl.ProviderError{Provider: name, Message: "provider not registered"}
	}
	return p.Translate(ctx, req)
}

// Verify Router implements Provider
var _ Provider = (*Router)(nil)
