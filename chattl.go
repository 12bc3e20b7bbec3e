// Package chattl provides the core of an inline chat translation engine.
//
// Chattl watches a chat client's compose box and incoming messages, offers
// on-demand translation of received text, and can substitute a translated
// draft when a message is sent. The root package holds the pieces shared by
// every surface: the translation request and provider contract, typed errors,
// message fingerprints, language helpers, and the process-wide RequestQueue
// that serializes and paces every call to a translation provider.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/chattl"
//	    "github.com/ZaguanLabs/chattl/compose"
//	    "github.com/ZaguanLabs/chattl/provider"
//	    "github.com/ZaguanLabs/chattl/settings"
//	)
//
//	func main() {
//	    queue := chattl.NewRequestQueue(provider.NewRouter())
//	    defer queue.Close()
//
//	    ctrl := compose.NewController(queue, settings.Defaults())
//	    session := ctrl.Attach("general", surface)
//
//	    session.OnInputChanged("Hello") // SignalTranslate, preview lands after the debounce
//	}
package chattl
