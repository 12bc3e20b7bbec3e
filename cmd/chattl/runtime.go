package main

import (
	"context"
	"io"

	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/cache"
	"github.com/ZaguanLabs/chattl/compose"
	"github.com/ZaguanLabs/chattl/settings"
)

// runtime is the wired translation core: settings, cache, the shared
// request queue and the controller in front of it.
type runtime struct {
	log        pslog.Logger
	store      *settings.Store
	cache      chattl.TranslationCache
	queue      *chattl.RequestQueue
	controller *compose.Controller
}

func (a *app) settingsPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return settings.DefaultPath()
}

func (a *app) openStore(ctx context.Context) (*settings.Store, error) {
	path, err := a.settingsPath()
	if err != nil {
		return nil, err
	}
	return settings.Open(path, settings.WithStoreLogger(pslog.Ctx(ctx)))
}

func (a *app) openRuntime(ctx context.Context, sessionOpts ...compose.Option) (*runtime, error) {
	log := pslog.Ctx(ctx)
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	file := store.Current()

	c, err := cache.New(cache.Config{
		Backend:       file.Cache.Backend,
		Capacity:      file.Cache.Capacity,
		TTL:           file.Cache.TTL,
		RedisAddr:     file.Cache.RedisAddr,
		RedisPassword: file.Cache.RedisPassword,
		RedisDB:       file.Cache.RedisDB,
		Prefix:        file.Cache.Prefix,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	if err := file.Validate(); err != nil {
		log.Warn("settings failed validation", "err", err)
	}

	p := chattl.NewCachedProvider(a.newProvider(log), c, chattl.WithCacheLogger(log))
	q := chattl.NewRequestQueue(p,
		chattl.WithQueueConfig(file.Queue.Config()),
		chattl.WithQueueLogger(log),
	)
	ctrl := compose.NewController(q, file.Settings,
		compose.WithControllerLogger(log),
		compose.WithSessionOptions(sessionOpts...),
	)

	log.Debug("runtime ready", "settings", store.Path(), "provider", string(file.TranslationProvider), "cache", file.Cache.Backend)
	return &runtime{log: log, store: store, cache: c, queue: q, controller: ctrl}, nil
}

func (r *runtime) Close() {
	r.queue.Close()
	if closer, ok := r.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			r.log.Warn("cache close failed", "err", err)
		}
	}
}
