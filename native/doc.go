// Package native binds the vendor SDK's flat C ABI.
//
// The Steamworks runtime ships as a shared library (libsteam_api.so,
// libsteam_api.dylib, steam_api64.dll) exporting a flat symbol table
// (SteamAPI_*). This package models that table as the API interface and
// provides two implementations:
//
//   - Lib: the real binding, resolved at runtime with purego. No cgo.
//   - Fake: an in-process simulator with per-method call counters, used
//     by tests, examples, and the CLI's simulator mode.
//
// Everything above this package (session, callbacks, client) is written
// against API, never against the shared library directly, so the entire
// bridge runs unmodified on either implementation.
//
// # Manual Dispatch
//
// The bridge drains vendor callbacks itself through the manual-dispatch
// entry points (ManualDispatchInit, RunFrame, NextCallback,
// FreeLastCallback, APICallResult) instead of registering C++ callback
// objects. Callback payloads cross the boundary as raw little-endian
// structs; this package owns their layouts and codecs.
//
// # Thread Safety
//
// Lib is safe for concurrent use after Open; the vendor serializes
// internally. The dispatch entry points are an exception: they must be
// driven from a single thread, which the callbacks package enforces.
package native
