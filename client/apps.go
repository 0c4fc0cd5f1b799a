package client

import (
	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/native"
)

// Apps proxies the vendor's app-ownership capability.
type Apps struct {
	c   *Client
	raw native.Apps
	gen uint64
}

// CurrentGameLanguage returns the language the app should run in.
func (a *Apps) CurrentGameLanguage() (string, error) {
	if err := a.c.sess.EnsureGeneration(a.gen); err != nil {
		return "", err
	}
	return a.raw.CurrentGameLanguage(), nil
}

// IsSubscribed reports whether the account owns the current app.
func (a *Apps) IsSubscribed() (bool, error) {
	if err := a.c.sess.EnsureGeneration(a.gen); err != nil {
		return false, err
	}
	return a.raw.IsSubscribed(), nil
}

// BuildID returns the installed build of the current app.
func (a *Apps) BuildID() (int32, error) {
	if err := a.c.sess.EnsureGeneration(a.gen); err != nil {
		return 0, err
	}
	return a.raw.AppBuildID(), nil
}

// IsDLCInstalled reports whether the given DLC is installed.
func (a *Apps) IsDLCInstalled(app steamworks.AppID) (bool, error) {
	if err := a.c.sess.EnsureGeneration(a.gen); err != nil {
		return false, err
	}
	return a.raw.IsDLCInstalled(app), nil
}
