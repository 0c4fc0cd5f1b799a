package session

// State is the lifecycle position of a Session. Transitions are
// serialized by the Session's internal lock; reads are lock-free.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateShuttingDown
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event is a lifecycle notification delivered to observers.
type Event int

const (
	// EventInitialized fires after a successful initialize, inside the
	// transition lock, once the session is Running.
	EventInitialized Event = iota

	// EventShuttingDown fires at the start of teardown, while pending
	// work must be failed. Native handles are already invalid.
	EventShuttingDown

	// EventShutdown fires once the vendor session is torn down.
	EventShutdown
)

func (e Event) String() string {
	switch e {
	case EventInitialized:
		return "initialized"
	case EventShuttingDown:
		return "shutting_down"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle events. Callbacks run synchronously inside
// the Session's transition lock and must not call back into the Session.
type Observer interface {
	OnSessionEvent(evt Event, generation uint64)
}
