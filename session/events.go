package session

import "github.com/rs/zerolog"

// State is one phase of a run's lifecycle
type State string

const (
	StateInit         State = "INIT"
	StateResolving    State = "RESOLVING"
	StateSynthesizing State = "SYNTHESIZING"
	StateCompositing  State = "FITTING/COMPOSITING"
	StateAssembling   State = "ASSEMBLING"
	StatePublished    State = "PUBLISHED"
	StateCleaned      State = "CLEANED"
	StateFailed       State = "FAILED"
)

// Event is one structured progress notification. Scene is -1 for run-level
// events.
type Event struct {
	Session string
	State   State
	Scene   int
	Message string
}

// Observer receives progress events. Logging is a collaborator here, never
// a control-flow mechanism.
type Observer interface {
	Progress(Event)
}

// LogObserver forwards events to a structured logger
type LogObserver struct {
	Log zerolog.Logger
}

func (o LogObserver) Progress(e Event) {
	ev := o.Log.Info().Str("session", e.Session).Str("state", string(e.State))
	if e.State == StateFailed {
		ev = o.Log.Error().Str("session", e.Session).Str("state", string(e.State))
	}
	if e.Scene >= 0 {
		ev = ev.Int("scene", e.Scene)
	}
	ev.Msg(e.Message)
}
