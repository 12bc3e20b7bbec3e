package chattl

import (
	"context"
	"strings"

	"pkt.systems/pslog"
)

// Provider is the interface for translation backends. Implementations return
// plain translated text or a classifiable error (see IsRateLimited).
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req TranslateRequest) (string, error)

// Translate implements Provider.
func (f ProviderFunc) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	return f(ctx, req)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// CachedProvider wraps a Provider with a translation cache. Only successful
// translations are stored; cache failures never fail the translation.
type CachedProvider struct {
	provider Provider
	cache    TranslationCache
	log      pslog.Logger
}

// CachedOption configures a CachedProvider.
type CachedOption func(*CachedProvider)

// WithCacheLogger sets the logger used to report cache write failures.
func WithCacheLogger(log pslog.Logger) CachedOption {
	return func(p *CachedProvider) {
		if log != nil {
			p.log = log
		}
	}
}

// NewCachedProvider creates a new caching provider. A nil cache disables caching.
func NewCachedProvider(provider Provider, cache TranslationCache, opts ...CachedOption) *CachedProvider {
	p := &CachedProvider{
		provider: provider,
		cache:    cache,
		log:      pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Translate implements Provider with a cache lookup in front of the wrapped provider.
func (p *CachedProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if p.cache == nil || strings.TrimSpace(req.Text) == "" {
		return p.provider.Translate(ctx, req)
	}

	key := RequestCacheKey(req)
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	result, err := p.provider.Translate(ctx, req)
	if err != nil {
		return "", err
	}

	if err := p.cache.Set(key, result); err != nil {
		p.log.Warn("translation cache write failed", "err", &CacheError{Message: "set", Cause: err})
	}
	return result, nil
}

// Verify CachedProvider implements Provider
var _ Provider = (*CachedProvider)(nil)
