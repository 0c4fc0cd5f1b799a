package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
)

func newTestSession(t *testing.T) (*Session, *native.Fake) {
	t.Helper()
	t.Setenv(EnvAppID, "")
	fake := native.NewFake()
	s := New(fake, WithProbe(StaticProbe{}))
	return s, fake
}

func TestSession_InitializeSuccess(t *testing.T) {
	s, fake := newTestSession(t)

	if err := s.Initialize(context.Background(), steamworks.SpacewarAppID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if got := s.State(); got != StateRunning {
		t.Errorf("State = %v, want running", got)
	}
	if got := s.Generation(); got != 1 {
		t.Errorf("Generation = %d, want 1", got)
	}
	if got := s.AppID(); got != steamworks.SpacewarAppID {
		t.Errorf("AppID = %d, want %d", got, steamworks.SpacewarAppID)
	}

	// The app id must be in the environment before the vendor entry
	// point runs; the fake records what it observed at init time.
	if got := os.Getenv(EnvAppID); got != "480" {
		t.Errorf("env %s = %q, want 480", EnvAppID, got)
	}
	if got := fake.EnvSeenAtInit(); got != "480" {
		t.Errorf("env seen at init = %q, want 480", got)
	}
	if !fake.DispatchReady() {
		t.Error("manual dispatch not initialized")
	}
}

func TestSession_InitializeEnvironmentNotReady(t *testing.T) {
	tests := []struct {
		name       string
		probe      Probe
		wantDetail string
	}{
		{
			name:       "no client process",
			probe:      StaticProbe{},
			wantDetail: "not detected",
		},
		{
			name: "process present but unreachable",
			probe: StaticProbe{Info: ClientInfo{
				Found: true, Name: "steam", PID: 4242,
			}},
			wantDetail: "pid 4242",
		},
		{
			name:       "probe failure falls back to generic detail",
			probe:      StaticProbe{Err: fmt.Errorf("proc scan denied")},
			wantDetail: "not detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAppID, "")
			fake := native.NewFake()
			fake.SetRunning(false)
			s := New(fake, WithProbe(tt.probe))

			err := s.Initialize(context.Background(), steamworks.SpacewarAppID)
			if !errors.IsKind(err, errors.KindEnvironmentNotReady) {
				t.Fatalf("kind = %q, want environment_not_ready (err: %v)", errors.KindOf(err), err)
			}
			if !strings.Contains(err.Error(), tt.wantDetail) {
				t.Errorf("error %q does not mention %q", err, tt.wantDetail)
			}
			if got := s.State(); got != StateUninitialized {
				t.Errorf("State = %v, want uninitialized", got)
			}
			if got := fake.Calls("InitClient"); got != 0 {
				t.Errorf("vendor init attempted %d times, want 0", got)
			}
		})
	}
}

func TestSession_InitializeVendorFailure(t *testing.T) {
	s, fake := newTestSession(t)

	// App 9999 is not registered with the fake client, so the vendor
	// entry point itself rejects the session.
	err := s.Initialize(context.Background(), steamworks.AppID(9999))
	if !errors.IsKind(err, errors.KindInitializationFailure) {
		t.Fatalf("kind = %q, want initialization_failure (err: %v)", errors.KindOf(err), err)
	}

	if got := s.State(); got != StateUninitialized {
		t.Errorf("State = %v, want uninitialized (no partial state)", got)
	}
	if got := s.Generation(); got != 0 {
		t.Errorf("Generation = %d, want 0", got)
	}
	if err := s.EnsureRunning(); !errors.IsKind(err, errors.KindSessionNotRunning) {
		t.Errorf("EnsureRunning after failed init: %v", err)
	}
	if fake.Initialized() {
		t.Error("fake still initialized after rejected init")
	}
}

func TestSession_ZeroAppID(t *testing.T) {
	s, fake := newTestSession(t)

	err := s.Initialize(context.Background(), 0)
	if !errors.IsKind(err, errors.KindInitializationFailure) {
		t.Fatalf("kind = %q, want initialization_failure", errors.KindOf(err))
	}
	if got := fake.TotalCalls(); got != 0 {
		t.Errorf("native calls = %d, want 0", got)
	}
}

func TestSession_ReinitializeWhileRunning(t *testing.T) {
	s, fake := newTestSession(t)
	ctx := context.Background()

	if err := s.Initialize(ctx, steamworks.SpacewarAppID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// Same app id: idempotent no-op.
	if err := s.Initialize(ctx, steamworks.SpacewarAppID); err != nil {
		t.Fatalf("re-initialize with same app: %v", err)
	}
	if got := s.Generation(); got != 1 {
		t.Errorf("Generation = %d, want 1 (no new epoch)", got)
	}
	if got := fake.Calls("InitClient"); got != 1 {
		t.Errorf("vendor init ran %d times, want 1", got)
	}

	// Different app id: rejected without touching the running session.
	fake.RegisterApp(570)
	err := s.Initialize(ctx, steamworks.AppID(570))
	if !errors.IsKind(err, errors.KindInitializationFailure) {
		t.Fatalf("kind = %q, want initialization_failure", errors.KindOf(err))
	}
	if got := s.State(); got != StateRunning {
		t.Errorf("State = %v, want running", got)
	}
	if got := s.AppID(); got != steamworks.SpacewarAppID {
		t.Errorf("AppID = %d, want %d", got, steamworks.SpacewarAppID)
	}
}

func TestSession_ShutdownIdempotent(t *testing.T) {
	s, fake := newTestSession(t)

	// Shutdown before any initialize is a no-op, not a fault.
	if err := s.Shutdown(); err != nil {
		t.Fatalf("shutdown on fresh session: %v", err)
	}
	if got := fake.Calls("Shutdown"); got != 0 {
		t.Errorf("vendor shutdown ran %d times on fresh session, want 0", got)
	}

	if err := s.Initialize(context.Background(), steamworks.SpacewarAppID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := s.Shutdown(); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
	if got := s.State(); got != StateShutdown {
		t.Errorf("State = %v, want shutdown", got)
	}
	if got := fake.Calls("Shutdown"); got != 1 {
		t.Errorf("vendor shutdown ran %d times, want 1", got)
	}

	// Close is an alias and shares the idempotency.
	if err := s.Close(); err != nil {
		t.Fatalf("Close after shutdown: %v", err)
	}
}

func TestSession_GenerationFencing(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	if err := s.Initialize(ctx, steamworks.SpacewarAppID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.EnsureGeneration(1); err != nil {
		t.Fatalf("EnsureGeneration(1) while running: %v", err)
	}

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := s.EnsureGeneration(1); !errors.IsKind(err, errors.KindSessionNotRunning) {
		t.Errorf("EnsureGeneration after shutdown: %v", err)
	}

	// Re-initialization starts a new epoch; the old generation stays
	// permanently invalid.
	if err := s.Initialize(ctx, steamworks.SpacewarAppID); err != nil {
		t.Fatalf("re-initialize: %v", err)
	}
	if got := s.Generation(); got != 2 {
		t.Fatalf("Generation = %d, want 2", got)
	}
	if err := s.EnsureGeneration(1); !errors.IsKind(err, errors.KindSessionNotRunning) {
		t.Errorf("stale generation accepted: %v", err)
	}
	if err := s.EnsureGeneration(2); err != nil {
		t.Errorf("EnsureGeneration(2): %v", err)
	}
}

func TestSession_EnsureRunningBeforeInitialize(t *testing.T) {
	s, fake := newTestSession(t)

	if err := s.EnsureRunning(); !errors.IsKind(err, errors.KindSessionNotRunning) {
		t.Errorf("EnsureRunning = %v, want session_not_running", err)
	}
	if err := s.EnsureGeneration(0); !errors.IsKind(err, errors.KindSessionNotRunning) {
		t.Errorf("EnsureGeneration = %v, want session_not_running", err)
	}
	if got := fake.TotalCalls(); got != 0 {
		t.Errorf("native calls = %d, want 0", got)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingObserver) OnSessionEvent(evt Event, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s@%d", evt, generation))
}

func (r *recordingObserver) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestSession_ObserverSequence(t *testing.T) {
	s, _ := newTestSession(t)
	obs := &recordingObserver{}
	s.Subscribe(obs)

	ctx := context.Background()
	if err := s.Initialize(ctx, steamworks.SpacewarAppID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}

	want := []string{"initialized@1", "shutting_down@1", "shutdown@1"}
	got := obs.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSession_ContextCanceled(t *testing.T) {
	s, fake := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Initialize(ctx, steamworks.SpacewarAppID)
	if !errors.IsKind(err, errors.KindInitializationFailure) {
		t.Fatalf("kind = %q, want initialization_failure", errors.KindOf(err))
	}
	if got := fake.TotalCalls(); got != 0 {
		t.Errorf("native calls = %d, want 0", got)
	}
	if got := s.State(); got != StateUninitialized {
		t.Errorf("State = %v, want uninitialized", got)
	}
}

func TestSession_WithEnvPublishesAppID(t *testing.T) {
	t.Setenv(EnvAppID, "")
	fake := native.NewFake()

	var key, value string
	s := New(fake, WithProbe(StaticProbe{}), WithEnv(func(k, v string) error {
		key, value = k, v
		return os.Setenv(k, v)
	}))

	if err := s.Initialize(context.Background(), steamworks.SpacewarAppID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if key != EnvAppID || value != "480" {
		t.Errorf("env write = %s=%s, want %s=480", key, value, EnvAppID)
	}
	if got := fake.EnvSeenAtInit(); got != "480" {
		t.Errorf("EnvSeenAtInit = %q, want %q", got, "480")
	}
}

func TestSession_WithEnvWriteFailure(t *testing.T) {
	t.Setenv(EnvAppID, "")
	fake := native.NewFake()
	s := New(fake, WithProbe(StaticProbe{}), WithEnv(func(string, string) error {
		return fmt.Errorf("environment sealed")
	}))

	err := s.Initialize(context.Background(), steamworks.SpacewarAppID)
	if !errors.IsKind(err, errors.KindInitializationFailure) {
		t.Fatalf("kind = %q, want initialization_failure", errors.KindOf(err))
	}
	if got := s.State(); got != StateUninitialized {
		t.Errorf("State = %v, want uninitialized", got)
	}
	if got := fake.Calls("InitClient"); got != 0 {
		t.Errorf("InitClient ran %d times despite failed env write, want 0", got)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateInitializing, "initializing"},
		{StateRunning, "running"},
		{StateShuttingDown, "shutting_down"},
		{StateShutdown, "shutdown"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
