//go:build !(linux || darwin || freebsd || windows)

package native

import (
	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

// Options configures Open.
type Options struct {
	Path string
}

// Lib is unavailable on this platform; Open always fails and only the
// Fake implementation of API can be used. The method set is kept so
// callers compile everywhere.
type Lib struct{}

var errUnsupported = errors.LibraryLoad("vendor library loading not supported on this platform", nil)

func Open(Options) (*Lib, error) {
	return nil, errUnsupported
}

func (*Lib) Close() error { return nil }
func (*Lib) Path() string { return "" }

func (*Lib) IsSteamRunning() bool                           { return false }
func (*Lib) RestartAppIfNecessary(steamworks.AppID) bool    { return false }
func (*Lib) InitClient() error                              { return errUnsupported }
func (*Lib) Shutdown()                                      {}
func (*Lib) Pipe() HSteamPipe                               { return 0 }
func (*Lib) CurrentUser() HSteamUser                        { return 0 }
func (*Lib) ReleaseCurrentThreadMemory()                    {}
func (*Lib) ManualDispatchInit()                            {}
func (*Lib) RunFrame(HSteamPipe)                            {}
func (*Lib) NextCallback(HSteamPipe) (CallbackMsg, bool)    { return CallbackMsg{}, false }
func (*Lib) FreeLastCallback(HSteamPipe)                    {}
func (*Lib) Utils() (Utils, error)                          { return nil, errUnsupported }
func (*Lib) User() (User, error)                            { return nil, errUnsupported }
func (*Lib) Friends() (Friends, error)                      { return nil, errUnsupported }
func (*Lib) Apps() (Apps, error)                            { return nil, errUnsupported }
func (*Lib) UserStats() (UserStats, error)                  { return nil, errUnsupported }

func (*Lib) APICallResult(HSteamPipe, steamworks.APICall, int, CallbackID) ([]byte, bool, bool) {
	return nil, false, false
}
