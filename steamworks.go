package steamworks

import "strconv"

// AppID identifies an application registered with the platform.
// The vendor SDK reads it from the SteamAppId environment variable
// during initialization.
type AppID uint32

// SpacewarAppID is the vendor's public sample application. It is valid
// for any account and is the conventional app identifier for bridge
// development and tests.
const SpacewarAppID AppID = 480

func (a AppID) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// SteamID is a 64-bit account identifier. The low 32 bits carry the
// account number; the high bits encode instance, account type and
// universe.
type SteamID uint64

// AccountID returns the plain 32-bit account number.
func (s SteamID) AccountID() uint32 {
	return uint32(s & 0xFFFFFFFF)
}

// IsValid reports whether the identifier carries an account number.
func (s SteamID) IsValid() bool {
	return s != 0 && s.AccountID() != 0
}

func (s SteamID) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// APICall identifies one in-flight asynchronous SDK request. The vendor
// returns it when an async operation is issued and echoes it back when
// the matching completion is dispatched through the callback queue.
type APICall uint64

// InvalidAPICall is returned by async entry points that failed at
// issuance and will never produce a completion.
const InvalidAPICall APICall = 0

// HAuthTicket references a session auth ticket held by the vendor.
type HAuthTicket uint32

// InvalidAuthTicket is returned when ticket issuance fails.
const InvalidAuthTicket HAuthTicket = 0
