package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
)

// QueueSettings tunes the shared request queue.
type QueueSettings struct {
	Spacing        time.Duration `yaml:"spacing"`
	MaxRetries     int           `yaml:"maxRetries"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
}

// Config converts the file values to a queue configuration.
func (q QueueSettings) Config() chattl.QueueConfig {
	return chattl.QueueConfig{
		Spacing: q.Spacing,
		Retry: chattl.RetryConfig{
			MaxRetries:     q.MaxRetries,
			InitialBackoff: q.InitialBackoff,
		},
	}
}

// CacheSettings selects the translation cache backend.
type CacheSettings struct {
	Backend       string        `yaml:"backend"` // none, memory or redis
	Capacity      int           `yaml:"capacity,omitempty"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
	RedisAddr     string        `yaml:"redisAddr,omitempty"`
	RedisPassword string        `yaml:"redisPassword,omitempty"`
	RedisDB       int           `yaml:"redisDB,omitempty"`
	Prefix        string        `yaml:"prefix,omitempty"`
}

// File is the on-disk settings document. User settings sit at the top level;
// queue and cache tuning live in their own sections.
type File struct {
	Settings `yaml:",inline"`
	Queue    QueueSettings `yaml:"queue"`
	Cache    CacheSettings `yaml:"cache"`
}

// DefaultFile returns the document used when no settings file exists. The
// interface language follows the process locale.
func DefaultFile() File {
	qc := chattl.DefaultQueueConfig()
	s := Defaults()
	s.UILanguage = SystemUILanguage()
	return File{
		Settings: s,
		Queue: QueueSettings{
			Spacing:        qc.Spacing,
			MaxRetries:     qc.Retry.MaxRetries,
			InitialBackoff: qc.Retry.InitialBackoff,
		},
		Cache: CacheSettings{Backend: "memory", Capacity: 1000},
	}
}

// DefaultPath returns the settings file location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, chattl.Name, "settings.yaml"), nil
}

// Load reads the settings file at path. A missing file yields DefaultFile.
// Legacy targetLanguage/sourceLanguage keys fill yourLanguage/othersLanguage
// when those are absent.
func Load(path string) (File, error) {
	file := DefaultFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return file, nil
		}
		return File{}, &chattl.ConfigError{Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	for _, key := range Keys {
		if !v.IsSet(key) {
			continue
		}
		if err := file.Set(key, v.Get(key)); err != nil {
			return File{}, err
		}
	}
	if !v.IsSet(KeyYourLanguage) && v.IsSet(legacyTargetLanguage) {
		file.YourLanguage = v.GetString(legacyTargetLanguage)
	}
	if !v.IsSet(KeyOthersLanguage) && v.IsSet(legacySourceLanguage) {
		file.OthersLanguage = v.GetString(legacySourceLanguage)
	}

	if v.IsSet("queue.spacing") {
		file.Queue.Spacing = v.GetDuration("queue.spacing")
	}
	if v.IsSet("queue.maxRetries") {
		file.Queue.MaxRetries = v.GetInt("queue.maxRetries")
	}
	if v.IsSet("queue.initialBackoff") {
		file.Queue.InitialBackoff = v.GetDuration("queue.initialBackoff")
	}

	if v.IsSet("cache.backend") {
		file.Cache.Backend = v.GetString("cache.backend")
	}
	if v.IsSet("cache.capacity") {
		file.Cache.Capacity = v.GetInt("cache.capacity")
	}
	if v.IsSet("cache.ttl") {
		file.Cache.TTL = v.GetDuration("cache.ttl")
	}
	file.Cache.RedisAddr = v.GetString("cache.redisAddr")
	file.Cache.RedisPassword = v.GetString("cache.redisPassword")
	file.Cache.RedisDB = v.GetInt("cache.redisDB")
	file.Cache.Prefix = v.GetString("cache.prefix")

	switch file.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return File{}, &chattl.ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unsupported backend %q", file.Cache.Backend)}
	}
	return file, nil
}

// Store persists settings at a fixed path and notifies about external edits.
type Store struct {
	path     string
	log      pslog.Logger
	debounce time.Duration

	mu      sync.Mutex
	current File
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for watch events.
func WithStoreLogger(log pslog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWatchDebounce sets how long Watch waits for writes to settle.
func WithWatchDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		s.debounce = d
	}
}

// Open loads the settings file at path and returns a Store bound to it.
func Open(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		path:     path,
		log:      pslog.Ctx(context.Background()),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	file, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current = file
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Current returns the last loaded or saved document.
func (s *Store) Current() File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save validates file and writes it to disk. Invalid settings are rejected
// with a ConfigError and nothing is written. It returns the changes relative
// to the previous document.
func (s *Store) Save(file File) (Changes, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("replace settings: %w", err)
	}

	s.mu.Lock()
	changes := Diff(s.current.Settings, file.Settings)
	s.current = file
	s.mu.Unlock()
	return changes, nil
}

// Watch reloads the settings file whenever it changes on disk and calls fn
// with the new settings and the keys that changed. Reloads with no setting
// changes and unreadable files are not reported. Watch blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(Settings, Changes)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	var (
		mu     sync.Mutex
		timer  *time.Timer
		closed bool
	)
	defer func() {
		mu.Lock()
		closed = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	reload := func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		file, err := Load(s.path)
		if err != nil {
			s.log.Warn("settings reload failed", "path", s.path, "err", err)
			return
		}
		s.mu.Lock()
		changes := Diff(s.current.Settings, file.Settings)
		s.current = file
		s.mu.Unlock()
		if len(changes) == 0 {
			return
		}
		s.log.Info("settings changed", "path", s.path, "keys", len(changes))
		fn(file.Settings, changes)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("settings watch error", "err", err)
		}
	}
}
