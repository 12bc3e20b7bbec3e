package compose

// Surface is the host page's compose box as seen by a Session.
//
// SetText and Submit may synchronously call back into the Session (the
// substitution fires an input event, the re-dispatched submit fires the
// interception again); the Session never holds its lock while calling them.
type Surface interface {
	// Text returns the current raw content.
	Text() string
	// SetText replaces the content.
	SetText(text string)
	// Submit re-dispatches the native submit action for trigger.
	Submit(trigger Trigger)
}

// PreviewStatus is what the translation preview above the compose box shows.
type PreviewStatus int

const (
	PreviewHidden PreviewStatus = iota
	PreviewLoading
	PreviewReady
	PreviewNoTranslation
	PreviewError
)

var previewNames = map[PreviewStatus]string{
	PreviewHidden:        "hidden",
	PreviewLoading:       "loading",
	PreviewReady:         "ready",
	PreviewNoTranslation: "no_translation",
	PreviewError:         "error",
}

func (p PreviewStatus) String() string {
	if name, ok := previewNames[p]; ok {
		return name
	}
	return "unknown"
}

// Preview is the rendered preview content. Label and Text are localized.
type Preview struct {
	Status PreviewStatus
	Label  string
	Text   string
}

// Events observes a session. Callbacks run after the session releases its
// lock, in the order the changes happened.
type Events interface {
	StateChanged(surfaceID string, state State)
	PreviewChanged(surfaceID string, preview Preview)
}

// NopEvents ignores every notification.
type NopEvents struct{}

func (NopEvents) StateChanged(string, State)     {}
func (NopEvents) PreviewChanged(string, Preview) {}
