package client

import (
	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/callbacks"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
)

// UserStats proxies the vendor's stats and achievements capability.
type UserStats struct {
	c   *Client
	raw native.UserStats
	gen uint64
}

// RequestUserStats starts an async stats fetch for one account. The
// returned pending call resolves only while the pump is driven.
func (s *UserStats) RequestUserStats(user steamworks.SteamID) (*callbacks.Call[native.UserStatsReceived], error) {
	const op = "user_stats.request_user_stats"
	if err := s.c.sess.EnsureGeneration(s.gen); err != nil {
		return nil, err
	}

	call := s.raw.RequestUserStats(user)
	if call == steamworks.InvalidAPICall {
		return nil, errors.NativeCall(op, "request issuance failed")
	}

	rec := s.c.pump.Registry().Track(call,
		native.CallbackUserStatsReceived, native.UserStatsReceivedSize)
	decode := func(b []byte) (native.UserStatsReceived, error) {
		received, err := native.DecodeUserStatsReceived(b)
		if err != nil {
			return received, err
		}
		return received, errors.FromEResult(op, int32(received.Result), received.Result.Message())
	}
	return callbacks.Typed(rec, decode), nil
}

// RequestCurrentStats starts an async fetch of the local user's stats.
// Completion is broadcast, not call-bound: observe it through
// OnStatsReceived.
func (s *UserStats) RequestCurrentStats() error {
	const op = "user_stats.request_current_stats"
	if err := s.c.sess.EnsureGeneration(s.gen); err != nil {
		return err
	}
	if !s.raw.RequestCurrentStats() {
		return errors.NativeCall(op, "request issuance failed")
	}
	return nil
}

// OnStatsReceived subscribes fn to stats-received broadcasts. fn runs on
// the pump goroutine; malformed payloads are skipped.
func (s *UserStats) OnStatsReceived(fn func(native.UserStatsReceived)) (cancel func()) {
	return s.c.pump.Registry().Subscribe(native.CallbackUserStatsReceived,
		func(evt callbacks.Event) {
			received, err := native.DecodeUserStatsReceived(evt.Data)
			if err != nil {
				return
			}
			fn(received)
		})
}

// Achievement reports whether the named achievement is unlocked.
func (s *UserStats) Achievement(name string) (bool, error) {
	if err := s.c.sess.EnsureGeneration(s.gen); err != nil {
		return false, err
	}
	return s.raw.Achievement(name)
}

// SetAchievement marks the named achievement unlocked locally. StoreStats
// must run for the change to persist.
func (s *UserStats) SetAchievement(name string) error {
	if err := s.c.sess.EnsureGeneration(s.gen); err != nil {
		return err
	}
	return s.raw.SetAchievement(name)
}

// StoreStats persists locally modified stats to the backend.
func (s *UserStats) StoreStats() error {
	if err := s.c.sess.EnsureGeneration(s.gen); err != nil {
		return err
	}
	return s.raw.StoreStats()
}
