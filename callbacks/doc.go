// Package callbacks drains the vendor SDK's callback queue and turns it
// into host-visible completions.
//
// The vendor exposes asynchronous operations as "fire request, poll for
// callback": nothing completes until the host drives the dispatch entry
// points. The Pump is that drive, made explicit. Bind it to one
// goroutine and tick it at a sub-second cadence, or hand it a dedicated
// OS-locked goroutine through Run.
//
// # Pending Calls
//
// Every issued async request is tracked as a Record in the Registry,
// keyed by the vendor's call handle. When the pump observes the matching
// completion announcement it fetches the result payload and resolves the
// record's completion slot. Waiting happens in the host's own primitives
// (channel plus context); the bridge never blocks a calling thread
// waiting on a native callback.
//
// Completions for records nobody tracks anymore are dropped, counted,
// and logged at debug level. A dropped callback is not an error.
//
// # Thread Affinity
//
// The vendor's dispatch entry points must be driven from one thread for
// the life of the session. Bind locks the calling goroutine to its OS
// thread and hands back the only value that can tick; a second Bind, or
// concurrent ticks, fail with a pump_thread_violation rather than
// migrating silently.
//
// # Ordering
//
// Within one tick, completions resolve in the order the vendor queue
// reports them. No ordering is guaranteed across ticks.
package callbacks
