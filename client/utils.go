package client

import (
	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/callbacks"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
)

// Utils proxies the vendor's utility capability. Valid for the session
// generation it was resolved in; stale proxies fail with
// session_not_running and never touch the vendor.
type Utils struct {
	c   *Client
	raw native.Utils
	gen uint64
}

// ServerTime returns the vendor server clock in unix seconds. The only
// failure path is a session that is not running.
func (u *Utils) ServerTime() (uint32, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return 0, err
	}
	return u.raw.ServerRealTime(), nil
}

// AppID returns the app the session is running as.
func (u *Utils) AppID() (steamworks.AppID, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return 0, err
	}
	return u.raw.AppID(), nil
}

// IPCountry returns the two-letter country code of the client's egress.
func (u *Utils) IPCountry() (string, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return "", err
	}
	return u.raw.IPCountry(), nil
}

// SecondsSinceAppActive returns the uptime of the app context.
func (u *Utils) SecondsSinceAppActive() (uint32, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return 0, err
	}
	return u.raw.SecondsSinceAppActive(), nil
}

// OnSteamDeck reports whether the app runs on the vendor's handheld.
func (u *Utils) OnSteamDeck() (bool, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return false, err
	}
	return u.raw.IsSteamRunningOnSteamDeck(), nil
}

// CheckFileSignature starts an async ownership-signature check for the
// given path. The returned pending call resolves only while the pump is
// driven; issuing never blocks.
func (u *Utils) CheckFileSignature(path string) (*callbacks.Call[native.CheckFileSignatureResult], error) {
	const op = "utils.check_file_signature"
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return nil, err
	}

	call := u.raw.CheckFileSignature(path)
	if call == steamworks.InvalidAPICall {
		return nil, errors.NativeCall(op, "request issuance failed")
	}

	rec := u.c.pump.Registry().Track(call,
		native.CallbackCheckFileSignature, native.CheckFileSignatureResultSize)
	return callbacks.Typed(rec, native.DecodeCheckFileSignature), nil
}
