package chattl

import "runtime/debug"

// Release metadata. GitCommit and BuildDate are stamped by the release build:
//
//	go build -ldflags "-X github.com/ZaguanLabs/chattl.GitCommit=$(git rev-parse HEAD)"
const (
	Name        = "chattl"
	Description = "Inline translation for chat compose boxes and message threads"
	Version     = "0.1.0"
	Repository  = "https://github.com/ZaguanLabs/chattl"
	License     = "MIT"
)

var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns Version with the short commit appended. Without a
// stamped commit it falls back to the VCS revision embedded by the toolchain.
func FullVersion() string {
	rev := GitCommit
	if rev == "unknown" || rev == "" {
		rev = vcsRevision()
	}
	if rev == "" {
		return Version
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return Version + "+" + rev
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// UserAgent identifies chattl to translation providers.
func UserAgent() string {
	return Name + "/" + Version
}
