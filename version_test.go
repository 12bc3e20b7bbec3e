package chattl

import (
	"strings"
	"testing"
)

func TestFullVersion_Commit(t *testing.T) {
	old := GitCommit
	defer func() { GitCommit = old }()

	GitCommit = "0123456789abcdef"
	if got := FullVersion(); got != Version+"+0123456" {
		t.Errorf("expected short commit suffix, got %q", got)
	}
}

func TestFullVersion_PrefixedByVersion(t *testing.T) {
	if got := FullVersion(); !strings.HasPrefix(got, Version) {
		t.Errorf("expected %q prefix, got %q", Version, got)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "chattl/"+Version {
		t.Errorf("unexpected user agent %q", got)
	}
}
