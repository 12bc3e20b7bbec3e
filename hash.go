package chattl

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKeyExtended generates an extended cache key including source language and model.
// The model slot carries the provider and formality so that two backends never share entries.
func CacheKeyExtended(hash, sourceLang, targetLang, model string) string {
	return hash + ":" + sourceLang + ":" + targetLang + ":" + model
}

// RequestCacheKey builds the cache key for a translation request.
func RequestCacheKey(req TranslateRequest) string {
	model := string(req.Provider)
	if req.Formality != "" {
		model += "/" + string(req.Formality)
	}
	return CacheKeyExtended(HashText(req.Text), req.SourceLang, req.TargetLang, model)
}

// FingerprintSource carries the identifiers found around a message node,
// ordered from most to least stable.
type FingerprintSource struct {
	ContainerTS string // data-ts inside the nearest list container
	ContainerID string // id of the nearest list container
	NodeTS      string // data-ts on the message node itself
	NodeID      string // id on the message node itself
	AncestorTS  string // data-ts on any ancestor
	Sender      string // sender display name, used only by the content hash
	Text        string // message text, used only by the content hash
}

const (
	fingerprintTextRunes   = 100
	fingerprintSenderRunes = 30
)

// MessageFingerprint derives the identifier used to recognize the same
// logical message across DOM mutations. Timestamp and id attributes win; the
// content hash of sender and leading text is the last resort. An empty result
// means the message cannot be identified.
func MessageFingerprint(src FingerprintSource) string {
	switch {
	case src.ContainerTS != "":
		return "ts_" + src.ContainerTS
	case src.ContainerID != "":
		return "id_" + src.ContainerID
	case src.NodeTS != "":
		return "ts_" + src.NodeTS
	case src.NodeID != "":
		return "id_" + src.NodeID
	case src.AncestorTS != "":
		return "ts_" + src.AncestorTS
	}

	text := TruncateRunes(strings.TrimSpace(src.Text), fingerprintTextRunes)
	if text == "" {
		return ""
	}
	sender := TruncateRunes(strings.TrimSpace(src.Sender), fingerprintSenderRunes)
	sum := xxhash.Sum64String(sender + "|" + text)
	return "combined_" + strconv.FormatUint(sum, 16)
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TextLength returns the number of characters in s.
func TextLength(s string) int {
	return len([]rune(s))
}
