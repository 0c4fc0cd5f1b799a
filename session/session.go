package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
)

// EnvAppID is the environment variable the vendor SDK reads during
// initialization. Initialize writes it before the vendor entry point
// runs; this is a documented process-wide side effect, not an
// implementation detail.
const EnvAppID = "SteamAppId"

// Session owns the process-wide vendor SDK session: start-up sequencing,
// environment configuration, and teardown. The vendor runtime is a
// singleton by construction, so one Session per native.API is the
// intended shape; every interface proxy holds a non-owning reference and
// re-checks state through EnsureGeneration before each native call.
//
// State transitions are serialized by an internal lock. State reads are
// atomic and safe from any goroutine.
type Session struct {
	api   native.API
	probe Probe
	env   Env

	mu         sync.Mutex // serializes initialize/shutdown transitions
	state      atomic.Int32
	generation atomic.Uint64
	appID      atomic.Uint32

	obsMu     sync.RWMutex
	observers []Observer
}

// Option configures a Session.
type Option func(*Session)

// WithProbe replaces the vendor-process probe used to enrich
// EnvironmentNotReady diagnostics.
func WithProbe(p Probe) Option {
	return func(s *Session) {
		s.probe = p
	}
}

// Env writes one environment variable. Initialize publishes the app id
// through it; the default is os.Setenv, the documented process-wide
// side effect the vendor SDK requires.
type Env func(key, value string) error

// WithEnv replaces the environment writer. Tests use it to observe the
// app id publication without mutating the process environment.
func WithEnv(env Env) Option {
	return func(s *Session) {
		s.env = env
	}
}

// New creates a Session over the given vendor API. The session starts
// Uninitialized; nothing touches the vendor until Initialize.
func New(api native.API, opts ...Option) *Session {
	s := &Session{
		api:   api,
		probe: NewProcessProbe(),
		env:   os.Setenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// API exposes the underlying vendor binding. Bridge-internal surface:
// the callbacks and client packages reach the vendor through it, always
// under an EnsureGeneration guard.
func (s *Session) API() native.API {
	return s.api
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Generation returns the current initialize epoch. Zero means the
// session has never run.
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// AppID returns the app the session was last initialized for.
func (s *Session) AppID() steamworks.AppID {
	return steamworks.AppID(s.appID.Load())
}

// Subscribe registers a lifecycle observer.
func (s *Session) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Session) notify(evt Event, generation uint64) {
	s.obsMu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.RUnlock()

	for _, o := range observers {
		o.OnSessionEvent(evt, generation)
	}
}

// Initialize brings the session to Running. The sequence is fixed:
// verify the vendor client process is reachable, publish the app id to
// the environment, then run the vendor init entry point and switch to
// manual callback dispatch.
//
// Calling Initialize while already Running with the same app id is a
// no-op; a different app id fails without touching the running session.
// A failed initialize leaves no partial state behind. Re-initializing
// after Shutdown is supported and starts a new generation; handles from
// prior generations stay permanently invalid.
func (s *Session) Initialize(ctx context.Context, app steamworks.AppID) error {
	const op = "session.initialize"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(op, errors.KindInitializationFailure, err,
			"context done before initialization")
	}

	prior := State(s.state.Load())
	if prior == StateRunning {
		if steamworks.AppID(s.appID.Load()) == app {
			return nil
		}
		return errors.InitializationFailure(op,
			fmt.Sprintf("session already running with app id %d", s.appID.Load()))
	}

	if app == 0 {
		return errors.InitializationFailure(op, "app id must be non-zero")
	}

	if !s.api.IsSteamRunning() {
		return errors.EnvironmentNotReady(op, s.describeMissingClient(ctx))
	}

	if err := s.env(EnvAppID, app.String()); err != nil {
		return errors.Wrap(op, errors.KindInitializationFailure, err,
			"publishing app id to the environment")
	}

	s.state.Store(int32(StateInitializing))
	if err := s.api.InitClient(); err != nil {
		s.state.Store(int32(prior))
		return errors.Wrap(op, errors.KindInitializationFailure, err,
			"vendor initialization failed")
	}
	s.api.ManualDispatchInit()

	s.appID.Store(uint32(app))
	gen := s.generation.Add(1)
	s.state.Store(int32(StateRunning))
	s.notify(EventInitialized, gen)

	Logger().Info("session running",
		zap.Uint32("app_id", uint32(app)),
		zap.Uint64("generation", gen))
	return nil
}

// describeMissingClient enriches the not-ready diagnostic with a process
// scan: a client process that exists but is unreachable over IPC is a
// different user action than one that is not running at all.
func (s *Session) describeMissingClient(ctx context.Context) string {
	if s.probe == nil {
		return "steam client process not detected"
	}
	info, err := s.probe.Detect(ctx)
	if err != nil || !info.Found {
		return "steam client process not detected (start the client and retry)"
	}
	return fmt.Sprintf("client process %q (pid %d) found but not reachable over IPC",
		info.Name, info.PID)
}

// EnsureRunning fails unless the session is Running. Used before every
// native call; on failure no native call has been issued.
func (s *Session) EnsureRunning() error {
	if State(s.state.Load()) != StateRunning {
		return errors.NotRunning("session.ensure_running")
	}
	return nil
}

// EnsureGeneration is EnsureRunning plus a staleness fence: a handle
// created in a prior initialize epoch fails even though the session is
// running again.
func (s *Session) EnsureGeneration(generation uint64) error {
	if State(s.state.Load()) != StateRunning {
		return errors.NotRunning("session.ensure_running")
	}
	if current := s.generation.Load(); current != generation {
		return errors.StaleGeneration("session.ensure_running", generation, current)
	}
	return nil
}

// Shutdown tears the vendor session down. Observers are notified while
// the state is ShuttingDown so pending async work can be failed before
// the vendor entry point runs. Idempotent: calls after the first, and
// calls on a never-initialized session, are no-ops.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if State(s.state.Load()) != StateRunning {
		return nil
	}

	gen := s.generation.Load()
	s.state.Store(int32(StateShuttingDown))
	s.notify(EventShuttingDown, gen)

	s.api.Shutdown()
	s.state.Store(int32(StateShutdown))
	s.notify(EventShutdown, gen)

	Logger().Info("session shut down", zap.Uint64("generation", gen))
	return nil
}

// Close makes Session an io.Closer; it is Shutdown.
func (s *Session) Close() error {
	return s.Shutdown()
}

// DetectClient runs the vendor-process probe directly. Exposed for
// diagnostics (the CLI's info command); Initialize runs the same probe
// internally when the client is unreachable.
func (s *Session) DetectClient(ctx context.Context) (ClientInfo, error) {
	if s.probe == nil {
		return ClientInfo{}, nil
	}
	return s.probe.Detect(ctx)
}
