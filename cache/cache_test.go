package cache

import (
	"errors"
	"testing"

	"github.com/ZaguanLabs/chattl"
)

func TestNew_Backends(t *testing.T) {
	none, err := New(Config{Backend: BackendNone})
	if err != nil || none != nil {
		t.Errorf("none backend should return a nil cache, got %v, %v", none, err)
	}

	mem, err := New(Config{Backend: BackendMemory, Capacity: 10})
	if err != nil {
		t.Fatalf("memory backend failed: %v", err)
	}
	if _, ok := mem.(*InMemoryCache); !ok {
		t.Errorf("expected *InMemoryCache, got %T", mem)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(Config{Backend: "memcached"})

	var cfgErr *chattl.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
