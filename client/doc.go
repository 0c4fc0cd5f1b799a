// Package client is the high-level face of the bridge: one proxy object
// per exposed SDK capability, all fenced by the session lifecycle.
//
// Connect opens the vendor library (or accepts an injected binding),
// brings the session to Running, and resolves the capability proxies:
//
//	c, err := client.Connect(ctx, client.Config{AppID: steamworks.SpacewarAppID})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	go c.Pump().Run(ctx, 50*time.Millisecond)
//
//	when, err := c.Utils().ServerTime()
//
// Every proxy method re-checks the session before touching the vendor:
// outside the Running state, or after the session was shut down and
// re-initialized, the call fails with session_not_running and issues no
// native call. Proxies are bound to the initialize generation that
// created them; Connect again (or Resolve) after a re-initialize to get
// live ones.
//
// Synchronous operations return plain values. Asynchronous operations
// return a pending *callbacks.Call that resolves only while the pump is
// being driven; issuing never blocks the caller.
package client
