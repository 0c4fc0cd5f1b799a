// Package session owns the lifecycle of the process-wide vendor SDK
// session.
//
// The vendor runtime is a global singleton: one initialize, one
// callback queue, one teardown per process. Session is the single
// chokepoint that serializes those transitions, so no interface proxy
// can observe a torn-down session as running.
//
// # State Machine
//
//	Uninitialized --Initialize(ok)--> Running
//	Uninitialized --Initialize(fail)--> Uninitialized
//	Running --Shutdown--> ShuttingDown --> Shutdown
//	Shutdown --Initialize(ok)--> Running   (new generation)
//
// Initialize fails with EnvironmentNotReady when the vendor client
// process is unreachable and with InitializationFailure when the vendor
// entry point itself rejects the app; neither leaves partial state.
// Shutdown is idempotent.
//
// # Generations
//
// Every successful Initialize bumps a generation counter. Native
// handles and proxies record the generation they were created in and
// guard each call with EnsureGeneration, so a handle from a previous
// epoch fails with SessionNotRunning instead of dereferencing a
// dangling vendor pointer.
package session
