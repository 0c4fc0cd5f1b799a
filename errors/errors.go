package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind categorizes every failure mode reachable from the bridge. The set
// is total: no raw vendor return code ever crosses into host code without
// being mapped to exactly one Kind.
type Kind string

const (
	// KindEnvironmentNotReady: the vendor client process was not detected
	// at initialize time. Not retryable without external action; the user
	// must start the client.
	KindEnvironmentNotReady Kind = "environment_not_ready"

	// KindInitializationFailure: the vendor SDK's own init entry point
	// reported failure (bad app id, SDK mismatch). Not retryable for the
	// same inputs.
	KindInitializationFailure Kind = "initialization_failure"

	// KindSessionNotRunning: a native call was attempted outside the
	// Running state, or from a proxy of a previous session generation.
	// Self-correcting if the host re-initializes; no native call was made.
	KindSessionNotRunning Kind = "session_not_running"

	// KindNativeCallFailure: a native function reported an
	// operation-specific failure. Surfaced with detail; the bridge never
	// retries, since retry policy is a host decision.
	KindNativeCallFailure Kind = "native_call_failure"

	// KindCallbackDropped: an async result arrived for a discarded
	// pending call. Logged, never surfaced to the host; exported so log
	// consumers can classify it.
	KindCallbackDropped Kind = "callback_dropped"

	// KindPumpThreadViolation: the callback pump was bound or ticked from
	// the wrong goroutine. The pump never migrates threads silently.
	KindPumpThreadViolation Kind = "pump_thread_violation"

	// KindLibraryLoadFailure: the vendor shared library or one of its
	// required symbols could not be resolved.
	KindLibraryLoadFailure Kind = "library_load_failure"
)

// Error is the structured error type used throughout the bridge.
type Error struct {
	Cause  error
	Op     string // operation that failed, e.g. "session.initialize"
	Kind   Kind
	Detail string
	Code   int32 // vendor result code when one exists, 0 otherwise
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(e.Op)
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Code != 0 {
		b.WriteString(" (result ")
		b.WriteString(strconv.FormatInt(int64(e.Code), 10))
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two bridge errors match
// when their kinds are equal, so call sites can test taxonomy membership
// with errors.Is(err, &Error{Kind: KindSessionNotRunning}).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf extracts the Kind from any error produced by the bridge.
// Returns "" for nil and for foreign errors.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(op string, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Code sets the vendor result code.
func (b *Builder) Code(code int32) *Builder {
	b.err.Code = code
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// EnvironmentNotReady creates an error for a missing vendor client process.
func EnvironmentNotReady(op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindEnvironmentNotReady,
		Detail: detail,
	}
}

// InitializationFailure creates an error for a failed vendor init entry point.
func InitializationFailure(op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInitializationFailure,
		Detail: detail,
	}
}

// NotRunning creates a session-not-running error. Issued before any
// native call is attempted.
func NotRunning(op string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindSessionNotRunning,
		Detail: "session is not running",
	}
}

// StaleGeneration creates a session-not-running error for a proxy that
// outlived the initialize epoch it was created in.
func StaleGeneration(op string, have, current uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindSessionNotRunning,
		Detail: fmt.Sprintf("handle from generation %d, session at generation %d", have, current),
	}
}

// NativeCall creates an operation-specific native failure.
func NativeCall(op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNativeCallFailure,
		Detail: detail,
	}
}

// NativeCode creates a native failure carrying the vendor result code.
func NativeCode(op, detail string, code int32) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNativeCallFailure,
		Detail: detail,
		Code:   code,
	}
}

// CallbackDropped creates the log-only error recorded when a completion
// arrives for a discarded pending call.
func CallbackDropped(op string, call uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindCallbackDropped,
		Detail: fmt.Sprintf("completion for discarded call %d", call),
	}
}

// PumpViolation creates a pump thread-affinity violation error.
func PumpViolation(op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindPumpThreadViolation,
		Detail: detail,
	}
}

// LibraryLoad creates a shared-library resolution error.
func LibraryLoad(detail string, cause error) *Error {
	return &Error{
		Op:     "native.open",
		Kind:   KindLibraryLoadFailure,
		Detail: detail,
		Cause:  cause,
	}
}

// FromInitResult translates the vendor init entry point's result code.
// Zero is the vendor's success value and maps to nil; everything else
// becomes an initialization failure carrying the code.
func FromInitResult(op string, code int32, detail string) error {
	if code == 0 {
		return nil
	}
	return &Error{
		Op:     op,
		Kind:   KindInitializationFailure,
		Detail: detail,
		Code:   code,
	}
}

// FromEResult translates a vendor result code delivered alongside an
// otherwise successful native call. One is the vendor's success value
// and maps to nil; everything else becomes a native failure carrying
// the code.
func FromEResult(op string, code int32, detail string) error {
	if code == 1 {
		return nil
	}
	return &Error{
		Op:     op,
		Kind:   KindNativeCallFailure,
		Detail: detail,
		Code:   code,
	}
}

// Wrap wraps an existing error with bridge context.
func Wrap(op string, kind Kind, cause error, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
