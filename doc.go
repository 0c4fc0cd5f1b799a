// Package steamworks provides a lifecycle-safe Go bridge to the Steamworks SDK.
//
// The SDK ships as a native shared library with a process-global,
// callback-driven session. This library wraps it behind explicit session
// management so that no native call can ever reach an uninitialized or
// torn-down session.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	steamworks/          Root package with shared identifier types
//	├── client/          High-level API: interface proxies (Utils, User, ...)
//	├── session/         Session lifecycle: initialize, state machine, shutdown
//	├── callbacks/       Callback pump and pending-call registry
//	├── native/          Vendor ABI: purego loader, wire structs, Fake simulator
//	├── errors/          Structured error taxonomy for every failure mode
//	├── webapi/          Steam Web API HTTP client (keyed, rate-limit aware)
//	└── guard/           Steam Guard one-time code generation
//
// # Quick Start
//
// Connect against a running Steam client and read the server clock:
//
//	c, err := client.Connect(ctx, client.Config{AppID: steamworks.SpacewarAppID})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	go c.Pump().Run(ctx, 50*time.Millisecond)
//
//	t, err := c.Utils().ServerTime()
//	fmt.Println(t) // vendor server clock, unix seconds
//
// # Session Model
//
// The vendor SDK is a singleton by construction. The session package owns
// the one live session per process: Initialize sequences the environment
// configuration and the vendor entry point, Shutdown tears it down
// idempotently, and a generation counter fences every native handle so
// proxies from a previous initialize epoch fail cleanly instead of
// touching dangling pointers.
//
// # Callback Pump
//
// Asynchronous SDK operations complete only when the host drains the
// vendor's callback queue. The callbacks package exposes that drain as an
// explicit pump: bind it to one goroutine (the bridge locks the OS thread
// and rejects use from any other thread) and tick it at a sub-second
// cadence, or let Pump.Run own a dedicated goroutine. An operation backed
// by a pending record resolves only through the pump; a host that stops
// pumping hangs its own futures, not the bridge.
//
// # Thread Safety
//
// Session and the interface proxies are safe for concurrent use. The
// bound pump is NOT: it is owned by the goroutine that bound it, and the
// bridge fails loudly on violations rather than migrating the pump
// between threads.
package steamworks
