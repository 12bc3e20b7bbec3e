// Package annotate attaches click-to-translate annotations to incoming chat
// messages. Nothing is translated until the user reveals an annotation.
package annotate

import "github.com/ZaguanLabs/chattl"

// Document is a host page holding chat messages.
type Document interface {
	// Messages returns the message nodes currently in the page, in page order.
	// A page without a message list returns none.
	Messages() []MessageNode
}

// MessageNode is one message element of a Document. A node that the host
// page replaced (virtual-list recycling) is a different MessageNode, and
// does not carry the processed marker of its predecessor.
type MessageNode interface {
	// Processed reports whether the node carries our processed marker.
	Processed() bool
	MarkProcessed()

	// Source returns the identifying attributes of the node and its containers.
	Source() chattl.FingerprintSource

	// Sections returns the text of the node's rich-text sections.
	Sections() []string

	// Render attaches v to the node, replacing any annotation it already shows.
	Render(v View)

	// Clear removes the annotation and the processed marker.
	Clear()
}

// View is the rendered form of an annotation.
type View struct {
	State   State
	Visible bool
	Label   string // leading label, empty when the state has none
	Text    string
	Dir     string // "ltr" or "rtl" for translated text
}
