package client

import (
	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/callbacks"
	"github.com/wippyai/steamworks-go/native"
)

// User proxies the vendor's user capability.
type User struct {
	c   *Client
	raw native.User
	gen uint64
}

// SteamID returns the logged-in account identifier.
func (u *User) SteamID() (steamworks.SteamID, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return 0, err
	}
	return u.raw.SteamID(), nil
}

// LoggedOn reports whether the client holds a live backend connection.
func (u *User) LoggedOn() (bool, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return false, err
	}
	return u.raw.LoggedOn(), nil
}

// Ticket is an issued session auth ticket. The bytes are usable
// immediately; backend validation arrives later as a broadcast (see
// OnTicketResponse).
type Ticket struct {
	Data   []byte
	Handle steamworks.HAuthTicket
}

// AuthSessionTicket issues a session auth ticket.
func (u *User) AuthSessionTicket() (Ticket, error) {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return Ticket{}, err
	}

	handle, data, err := u.raw.AuthSessionTicket()
	if err != nil {
		return Ticket{}, err
	}
	return Ticket{Handle: handle, Data: data}, nil
}

// CancelAuthTicket invalidates a previously issued ticket.
func (u *User) CancelAuthTicket(t Ticket) error {
	if err := u.c.sess.EnsureGeneration(u.gen); err != nil {
		return err
	}
	u.raw.CancelAuthTicket(t.Handle)
	return nil
}

// OnTicketResponse subscribes fn to ticket validation broadcasts. fn
// runs on the pump goroutine; malformed payloads are skipped. The cancel
// function removes the subscription.
func (u *User) OnTicketResponse(fn func(native.AuthTicketResponse)) (cancel func()) {
	return u.c.pump.Registry().Subscribe(native.CallbackAuthTicketResponse,
		func(evt callbacks.Event) {
			resp, err := native.DecodeAuthTicketResponse(evt.Data)
			if err != nil {
				return
			}
			fn(resp)
		})
}
