package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Op:     "session.initialize",
				Kind:   KindInitializationFailure,
				Detail: "vendor init entry point rejected app id",
				Code:   8,
			},
			contains: []string{"[session.initialize]", "initialization_failure", "rejected app id", "result 8"},
		},
		{
			name: "minimal error",
			err: &Error{
				Op:   "utils.server_time",
				Kind: KindSessionNotRunning,
			},
			contains: []string{"[utils.server_time]", "session_not_running"},
		},
		{
			name: "error with cause",
			err: &Error{
				Op:     "native.open",
				Kind:   KindLibraryLoadFailure,
				Detail: "libsteam_api.so",
				Cause:  errors.New("no such file"),
			},
			contains: []string{"[native.open]", "library_load_failure", "libsteam_api.so", "caused by", "no such file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Op:    "session.initialize",
		Kind:  KindInitializationFailure,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Op:   "utils.server_time",
		Kind: KindSessionNotRunning,
	}

	// Same kind, different op: still a taxonomy match
	if !err.Is(&Error{Op: "session.shutdown", Kind: KindSessionNotRunning}) {
		t.Error("Is should match same kind regardless of op")
	}

	// Different kind
	if err.Is(&Error{Op: "utils.server_time", Kind: KindNativeCallFailure}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Kind: KindSessionNotRunning}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "bridge error",
			err:  NotRunning("utils.server_time"),
			want: KindSessionNotRunning,
		},
		{
			name: "wrapped bridge error",
			err:  wrapForeign(EnvironmentNotReady("session.initialize", "process absent")),
			want: KindEnvironmentNotReady,
		},
		{
			name: "foreign error",
			err:  errors.New("plain"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %q, want %q", got, tt.want)
			}
			wantIs := tt.want != ""
			if got := IsKind(tt.err, tt.want); tt.want != "" && got != wantIs {
				t.Errorf("IsKind = %v, want %v", got, wantIs)
			}
		})
	}
}

type foreignWrap struct{ inner error }

func (w foreignWrap) Error() string { return "wrap: " + w.inner.Error() }
func (w foreignWrap) Unwrap() error { return w.inner }

func wrapForeign(err error) error { return foreignWrap{inner: err} }

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New("user.auth_session_ticket", KindNativeCallFailure).
		Detail("ticket issuance rejected for account %d", 42).
		Code(15).
		Cause(cause).
		Build()

	if err.Op != "user.auth_session_ticket" {
		t.Errorf("Op = %v, want user.auth_session_ticket", err.Op)
	}
	if err.Kind != KindNativeCallFailure {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNativeCallFailure)
	}
	if err.Detail != "ticket issuance rejected for account 42" {
		t.Errorf("Detail = %v", err.Detail)
	}
	if err.Code != 15 {
		t.Errorf("Code = %v, want 15", err.Code)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("EnvironmentNotReady", func(t *testing.T) {
		err := EnvironmentNotReady("session.initialize", "steam client not detected")
		if err.Kind != KindEnvironmentNotReady {
			t.Errorf("Kind = %v, want %v", err.Kind, KindEnvironmentNotReady)
		}
		if !strings.Contains(err.Detail, "not detected") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("InitializationFailure", func(t *testing.T) {
		err := InitializationFailure("session.initialize", "invalid app id")
		if err.Kind != KindInitializationFailure {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInitializationFailure)
		}
	})

	t.Run("NotRunning", func(t *testing.T) {
		err := NotRunning("friends.persona_name")
		if err.Kind != KindSessionNotRunning {
			t.Errorf("Kind = %v, want %v", err.Kind, KindSessionNotRunning)
		}
		if err.Op != "friends.persona_name" {
			t.Errorf("Op = %v", err.Op)
		}
	})

	t.Run("StaleGeneration", func(t *testing.T) {
		err := StaleGeneration("utils.server_time", 1, 2)
		if err.Kind != KindSessionNotRunning {
			t.Errorf("Kind = %v, want %v", err.Kind, KindSessionNotRunning)
		}
		if !strings.Contains(err.Detail, "generation 1") || !strings.Contains(err.Detail, "generation 2") {
			t.Errorf("Detail = %v, should name both generations", err.Detail)
		}
	})

	t.Run("NativeCode", func(t *testing.T) {
		err := NativeCode("stats.store", "store rejected", 16)
		if err.Kind != KindNativeCallFailure {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNativeCallFailure)
		}
		if err.Code != 16 {
			t.Errorf("Code = %v, want 16", err.Code)
		}
	})

	t.Run("CallbackDropped", func(t *testing.T) {
		err := CallbackDropped("pump.dispatch", 77)
		if err.Kind != KindCallbackDropped {
			t.Errorf("Kind = %v, want %v", err.Kind, KindCallbackDropped)
		}
		if !strings.Contains(err.Detail, "77") {
			t.Errorf("Detail = %v, should contain call id", err.Detail)
		}
	})

	t.Run("PumpViolation", func(t *testing.T) {
		err := PumpViolation("pump.once", "pump already bound to another goroutine")
		if err.Kind != KindPumpThreadViolation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindPumpThreadViolation)
		}
	})

	t.Run("LibraryLoad", func(t *testing.T) {
		cause := errors.New("dlopen failed")
		err := LibraryLoad("no candidate library found", cause)
		if err.Kind != KindLibraryLoadFailure {
			t.Errorf("Kind = %v, want %v", err.Kind, KindLibraryLoadFailure)
		}
		if !errors.Is(err, &Error{Kind: KindLibraryLoadFailure}) {
			t.Error("errors.Is should match kind")
		}
		if !errors.Is(err.Unwrap(), cause) {
			t.Error("cause not preserved")
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("socket closed")
		err := Wrap("session.shutdown", KindNativeCallFailure, cause, "vendor teardown reported failure")
		if err.Kind != KindNativeCallFailure {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNativeCallFailure)
		}
		if !errors.Is(err, &Error{Kind: KindNativeCallFailure}) {
			t.Error("errors.Is should match kind")
		}
	})
}

func TestFromInitResult(t *testing.T) {
	if err := FromInitResult("native.init", 0, "success"); err != nil {
		t.Fatalf("code 0 = %v, want nil", err)
	}

	err := FromInitResult("native.init", 2, "client not running or unreachable")
	if !IsKind(err, KindInitializationFailure) {
		t.Fatalf("kind = %q, want initialization_failure", KindOf(err))
	}
	var bridge *Error
	if !errors.As(err, &bridge) || bridge.Code != 2 {
		t.Errorf("code not carried: %v", err)
	}
}

func TestFromEResult(t *testing.T) {
	if err := FromEResult("user_stats.request_user_stats", 1, "success"); err != nil {
		t.Fatalf("code 1 = %v, want nil", err)
	}

	err := FromEResult("user_stats.request_user_stats", 19, "invalid account identifier")
	if !IsKind(err, KindNativeCallFailure) {
		t.Fatalf("kind = %q, want native_call_failure", KindOf(err))
	}
	var bridge *Error
	if !errors.As(err, &bridge) || bridge.Code != 19 {
		t.Errorf("code not carried: %v", err)
	}
	if !strings.Contains(err.Error(), "result 19") {
		t.Errorf("rendered error %q does not carry the code", err.Error())
	}
}
