package annotate

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ZaguanLabs/chattl"
)

// Selectors of the host chat page.
const (
	MessageSelector     = `.c-message__message_blocks[data-qa="message-text"]`
	SectionSelector     = ".p-rich_text_section"
	SenderSelector      = `[data-qa*="message_sender"]`
	AnnotationClass     = "slack-translator-translation"
	ProcessedAttr       = "data-translator-processed"
	timestampSelector   = "[data-ts]"
	visibleClass        = "visible"
	labelClass          = "slack-translator-label"
	textClass           = "slack-translator-text"
	loadingClass        = "slack-translator-loading"
	annotationSelector  = "div." + AnnotationClass
	processedAttrMarker = "true"
)

// containerSelectors locate the list item around a message, most stable first.
var containerSelectors = []string{
	`[data-qa="virtual-list-item"]`,
	".c-virtual_list__item",
	`[id^="message-"]`,
}

// HTMLDocument is a Document over a snapshot of the host page.
type HTMLDocument struct {
	doc *goquery.Document
}

var _ Document = (*HTMLDocument)(nil)

// ParseHTML parses a page snapshot.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &chattl.DocumentError{Message: "failed to parse HTML", Cause: err}
	}
	return &HTMLDocument{doc: doc}, nil
}

// Messages returns the message blocks of the page.
func (d *HTMLDocument) Messages() []MessageNode {
	var nodes []MessageNode
	d.doc.Find(MessageSelector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &htmlMessage{sel: s})
	})
	return nodes
}

// HTML serializes the page.
func (d *HTMLDocument) HTML() (string, error) {
	out, err := d.doc.Html()
	if err != nil {
		return "", &chattl.DocumentError{Message: "failed to serialize HTML", Cause: err}
	}
	return out, nil
}

// Render writes the serialized page to w.
func (d *HTMLDocument) Render(w io.Writer) error {
	out, err := d.HTML()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

type htmlMessage struct {
	sel *goquery.Selection
}

func (m *htmlMessage) Processed() bool {
	return m.sel.AttrOr(ProcessedAttr, "") == processedAttrMarker
}

func (m *htmlMessage) MarkProcessed() {
	m.sel.SetAttr(ProcessedAttr, processedAttrMarker)
}

func (m *htmlMessage) container() *goquery.Selection {
	for _, sel := range containerSelectors {
		if c := m.sel.Closest(sel); c.Length() > 0 {
			return c
		}
	}
	return nil
}

func (m *htmlMessage) Source() chattl.FingerprintSource {
	src := chattl.FingerprintSource{
		NodeTS: m.sel.AttrOr("data-ts", ""),
		NodeID: m.sel.AttrOr("id", ""),
		Text:   m.text(),
	}
	if c := m.container(); c != nil {
		src.ContainerTS = c.Find(timestampSelector).First().AttrOr("data-ts", "")
		src.ContainerID = c.AttrOr("id", "")
		src.Sender = c.Find(SenderSelector).First().Text()
	}
	if parent := m.sel.Parent().Closest(timestampSelector); parent.Length() > 0 {
		src.AncestorTS = parent.AttrOr("data-ts", "")
	}
	return src
}

// text is the message text without our own annotation.
func (m *htmlMessage) text() string {
	clone := m.sel.Clone()
	clone.Find(annotationSelector).Remove()
	return strings.TrimSpace(clone.Text())
}

func (m *htmlMessage) Sections() []string {
	var out []string
	m.sel.Find(SectionSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func (m *htmlMessage) Render(v View) {
	m.sel.ChildrenFiltered(annotationSelector).Remove()
	m.sel.AppendNodes(annotationNode(v))
}

func (m *htmlMessage) Clear() {
	m.sel.ChildrenFiltered(annotationSelector).Remove()
	m.sel.RemoveAttr(ProcessedAttr)
}

// annotationNode builds the annotation element. Text is carried in text
// nodes, so the renderer escapes it.
func annotationNode(v View) *html.Node {
	class := AnnotationClass
	if v.Visible {
		class += " " + visibleClass
	}
	div := element(atom.Div, html.Attribute{Key: "class", Val: class},
		html.Attribute{Key: "data-state", Val: v.State.String()})

	switch {
	case v.State == StateTranslating:
		div.AppendChild(span(loadingClass, v.Text))
	case v.Label != "" && v.Text == "":
		div.AppendChild(span(labelClass, v.Label))
	default:
		if v.Label != "" {
			div.AppendChild(span(labelClass, v.Label))
		}
		text := span(textClass, v.Text)
		if v.Dir != "" {
			text.Attr = append(text.Attr, html.Attribute{Key: "dir", Val: v.Dir})
		}
		div.AppendChild(text)
	}
	return div
}

func span(class, text string) *html.Node {
	n := element(atom.Span, html.Attribute{Key: "class", Val: class})
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}
