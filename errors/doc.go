// Package errors provides structured error types for the steamworks-go bridge.
//
// Errors are categorized by Op (the operation that failed) and Kind (the
// taxonomy entry). The taxonomy is total: every native failure mode the
// bridge can observe maps to exactly one Kind, and no raw vendor return
// code crosses into host code.
//
// Use the Builder for structured error construction:
//
//	err := errors.New("utils.server_time", errors.KindNativeCallFailure).
//		Detail("vendor returned zero clock").
//		Code(2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotRunning("utils.server_time")
//	err := errors.EnvironmentNotReady("session.initialize", "steam client not detected")
//
// All errors implement the standard error interface and support errors.Is/As.
// Kind membership can be tested without allocation via errors.IsKind.
package errors
