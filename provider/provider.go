// Package provider implements the translation backends: DeepL, an OpenAI
// chat model, and the keyless MyMemory service, plus the Router that picks
// one per request.
package provider

import "github.com/ZaguanLabs/chattl"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = chattl.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = chattl.TranslateRequest
