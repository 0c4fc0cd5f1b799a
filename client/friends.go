package client

import (
	"github.com/wippyai/steamworks-go/native"
)

// Friends proxies the vendor's social capability.
type Friends struct {
	c   *Client
	raw native.Friends
	gen uint64
}

// PersonaName returns the local user's display name.
func (f *Friends) PersonaName() (string, error) {
	if err := f.c.sess.EnsureGeneration(f.gen); err != nil {
		return "", err
	}
	return f.raw.PersonaName(), nil
}

// PersonaState returns the local user's presence.
func (f *Friends) PersonaState() (native.EPersonaState, error) {
	if err := f.c.sess.EnsureGeneration(f.gen); err != nil {
		return native.PersonaStateOffline, err
	}
	return f.raw.PersonaState(), nil
}
