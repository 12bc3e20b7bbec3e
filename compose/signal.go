package compose

// Signal reports what OnInputChanged did with an input event.
type Signal int

const (
	// SignalNone means the session is disabled and ignored the event.
	SignalNone Signal = iota
	// SignalSkipProgrammatic means the event came from the session's own content substitution.
	SignalSkipProgrammatic
	// SignalSkipSameValue means the text did not change since the last event.
	SignalSkipSameValue
	// SignalResetEmpty means the box was emptied and the session reset its draft state.
	SignalResetEmpty
	// SignalSkipAccepted means the draft holds an accepted translation and is not retranslated.
	SignalSkipAccepted
	// SignalSkipSending means a send is in flight and the edit is not retranslated.
	SignalSkipSending
	// SignalTranslate means a debounced translation was scheduled.
	SignalTranslate
)

var signalNames = map[Signal]string{
	SignalNone:             "NONE",
	SignalSkipProgrammatic: "SKIP_PROGRAMMATIC",
	SignalSkipSameValue:    "SKIP_SAME_VALUE",
	SignalResetEmpty:       "RESET_EMPTY",
	SignalSkipAccepted:     "SKIP_ACCEPTED",
	SignalSkipSending:      "SKIP_SENDING",
	SignalTranslate:        "TRANSLATE",
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// State is the compose session's position in its lifecycle.
type State int

const (
	// StateIdle has no accepted translation and no pending debounce.
	StateIdle State = iota
	// StateDebounced has a translation scheduled or in flight.
	StateDebounced
	// StatePreviewReady has a translation available but not accepted.
	StatePreviewReady
	// StateAccepted has a committed translation; edits are not retranslated.
	StateAccepted
	// StateSending has a substituted send in flight.
	StateSending
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateDebounced:    "debounced",
	StatePreviewReady: "preview_ready",
	StateAccepted:     "accepted",
	StateSending:      "sending",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// SendOutcome reports what InterceptSend decided about a submit action.
type SendOutcome int

const (
	// SendIgnored means interception is off; the native send proceeds and nothing changes.
	SendIgnored SendOutcome = iota
	// SendAlreadySending means a substituted send is in flight; the event is the re-dispatched native send.
	SendAlreadySending
	// SendSubstituted means the draft was replaced by its translation. The caller must
	// suppress the original event; the session re-dispatches the submit itself.
	SendSubstituted
	// SendPassthrough means there was nothing to substitute; the native send proceeds
	// and the session resets shortly after.
	SendPassthrough
)

var outcomeNames = map[SendOutcome]string{
	SendIgnored:        "ignored",
	SendAlreadySending: "already_sending",
	SendSubstituted:    "substituted",
	SendPassthrough:    "passthrough",
}

func (o SendOutcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Suppress reports whether the caller must cancel the original submit event.
func (o SendOutcome) Suppress() bool {
	return o == SendSubstituted
}

// Trigger identifies how the user submitted the message.
type Trigger int

const (
	// TriggerKey is the submit key combination (Enter without Shift).
	TriggerKey Trigger = iota
	// TriggerButton is the host page's send button.
	TriggerButton
)

func (t Trigger) String() string {
	if t == TriggerButton {
		return "button"
	}
	return "key"
}
