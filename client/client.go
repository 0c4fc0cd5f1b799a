package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/callbacks"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
	"github.com/wippyai/steamworks-go/session"
)

// Config configures Connect.
type Config struct {
	// AppID is the application to initialize the vendor session for.
	// Required.
	AppID steamworks.AppID

	// API injects a vendor binding, usually a *native.Fake. When nil,
	// Connect opens the real shared library and owns its lifetime.
	API native.API

	// LibPath overrides shared-library resolution when Connect opens
	// the library itself. Ignored when API is set.
	LibPath string

	// Probe replaces the vendor-process probe used for diagnostics.
	Probe session.Probe
}

// Client owns a session, its callback pump, and the capability proxies
// resolved against the current initialize generation. Safe for
// concurrent use; the pump's bound face is the one exception, per the
// callbacks package.
type Client struct {
	sess *session.Session
	pump *callbacks.Pump
	lib  *native.Lib // non-nil when Connect opened the library

	mu      sync.RWMutex // guards the proxies across Resolve
	utils   *Utils
	user    *User
	friends *Friends
	apps    *Apps
	stats   *UserStats
}

// Connect builds the full bridge stack: vendor binding, session, pump,
// proxies. The session is initialized as part of connecting; a Connect
// against an unreachable client fails with environment_not_ready and
// leaves nothing behind.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	api := cfg.API
	var lib *native.Lib
	if api == nil {
		opened, err := native.Open(native.Options{Path: cfg.LibPath})
		if err != nil {
			return nil, err
		}
		lib = opened
		api = opened
	}

	var opts []session.Option
	if cfg.Probe != nil {
		opts = append(opts, session.WithProbe(cfg.Probe))
	}
	sess := session.New(api, opts...)

	c, err := FromSession(ctx, sess, cfg.AppID)
	if err != nil {
		if lib != nil {
			lib.Close()
		}
		return nil, err
	}
	c.lib = lib
	return c, nil
}

// FromSession wraps an externally managed session, initializing it if it
// is not Running yet. The caller keeps ownership of the session's vendor
// binding; Close still shuts the session down.
func FromSession(ctx context.Context, sess *session.Session, app steamworks.AppID) (*Client, error) {
	if err := sess.Initialize(ctx, app); err != nil {
		return nil, err
	}

	c := &Client{
		sess: sess,
		pump: callbacks.New(sess),
	}
	if err := c.Resolve(); err != nil {
		return nil, err
	}

	Logger().Info("client connected",
		zap.Uint32("app_id", uint32(app)),
		zap.Uint64("generation", sess.Generation()))
	return c, nil
}

// Resolve (re-)resolves the capability proxies against the session's
// current generation. Needed after a shutdown/re-initialize cycle;
// proxies from the prior generation keep failing with
// session_not_running.
func (c *Client) Resolve() error {
	if err := c.sess.EnsureRunning(); err != nil {
		return err
	}
	gen := c.sess.Generation()
	api := c.sess.API()

	utils, err := api.Utils()
	if err != nil {
		return errors.Wrap("client.resolve", errors.KindNativeCallFailure, err,
			"resolving utils interface")
	}
	user, err := api.User()
	if err != nil {
		return errors.Wrap("client.resolve", errors.KindNativeCallFailure, err,
			"resolving user interface")
	}
	friends, err := api.Friends()
	if err != nil {
		return errors.Wrap("client.resolve", errors.KindNativeCallFailure, err,
			"resolving friends interface")
	}
	apps, err := api.Apps()
	if err != nil {
		return errors.Wrap("client.resolve", errors.KindNativeCallFailure, err,
			"resolving apps interface")
	}
	stats, err := api.UserStats()
	if err != nil {
		return errors.Wrap("client.resolve", errors.KindNativeCallFailure, err,
			"resolving user stats interface")
	}

	c.mu.Lock()
	c.utils = &Utils{c: c, raw: utils, gen: gen}
	c.user = &User{c: c, raw: user, gen: gen}
	c.friends = &Friends{c: c, raw: friends, gen: gen}
	c.apps = &Apps{c: c, raw: apps, gen: gen}
	c.stats = &UserStats{c: c, raw: stats, gen: gen}
	c.mu.Unlock()
	return nil
}

// Session returns the underlying session manager.
func (c *Client) Session() *session.Session {
	return c.sess
}

// Pump returns the callback pump. The host must keep it running for any
// asynchronous operation to complete.
func (c *Client) Pump() *callbacks.Pump {
	return c.pump
}

// Callbacks returns the pending-call registry, for broadcast
// subscriptions.
func (c *Client) Callbacks() *callbacks.Registry {
	return c.pump.Registry()
}

// OnShutdownRequested subscribes fn to the vendor client's quit
// broadcast, sent when the user closes the client with this app still
// attached. Hosts should close the bridge promptly when it fires. fn
// runs on the pump goroutine.
func (c *Client) OnShutdownRequested(fn func()) (cancel func()) {
	return c.pump.Registry().Subscribe(native.CallbackSteamShutdown,
		func(callbacks.Event) { fn() })
}

// Utils returns the utils capability proxy.
func (c *Client) Utils() *Utils {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.utils
}

// User returns the user capability proxy.
func (c *Client) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Friends returns the friends capability proxy.
func (c *Client) Friends() *Friends {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.friends
}

// Apps returns the apps capability proxy.
func (c *Client) Apps() *Apps {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apps
}

// UserStats returns the user stats capability proxy.
func (c *Client) UserStats() *UserStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Close shuts the session down and, when Connect opened the vendor
// library, closes it. Idempotent.
func (c *Client) Close() error {
	err := c.sess.Shutdown()
	if c.lib != nil {
		if cerr := c.lib.Close(); err == nil {
			err = cerr
		}
		c.lib = nil
	}
	return err
}
