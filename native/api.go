package native

import (
	"github.com/wippyai/steamworks-go"
)

// API is the surface of the vendor shared library the bridge depends on.
// Lib binds it to the real runtime; Fake simulates it in-process. The
// session layer owns exactly one API value and every other package
// reaches the vendor through that value, never directly.
type API interface {
	// IsSteamRunning reports whether the vendor client process is
	// reachable. Cheap; does not require initialization.
	IsSteamRunning() bool

	// RestartAppIfNecessary asks the vendor whether the process must be
	// relaunched through the client to acquire an app context.
	RestartAppIfNecessary(app steamworks.AppID) bool

	// InitClient runs the vendor's init entry point. The SteamAppId
	// environment variable must already be set. A non-nil error carries
	// the vendor's own diagnostic.
	InitClient() error

	// Shutdown tears the vendor session down. Safe to call when no
	// session is active.
	Shutdown()

	// Pipe returns the communication pipe of the active session.
	Pipe() HSteamPipe

	// CurrentUser returns the user handle of the active session.
	CurrentUser() HSteamUser

	// ReleaseCurrentThreadMemory frees per-thread vendor allocations.
	ReleaseCurrentThreadMemory()

	// ManualDispatchInit switches the vendor into manual callback
	// dispatch. Must run after InitClient and before the first RunFrame.
	ManualDispatchInit()

	// RunFrame asks the vendor to flush pending work for one pipe so
	// queued callbacks become drainable.
	RunFrame(pipe HSteamPipe)

	// NextCallback pops the next queued callback message. The returned
	// message owns its payload copy. ok is false when the queue is empty.
	NextCallback(pipe HSteamPipe) (msg CallbackMsg, ok bool)

	// FreeLastCallback releases the vendor-side slot of the message most
	// recently returned by NextCallback.
	FreeLastCallback(pipe HSteamPipe)

	// APICallResult fetches the payload of a completed async call.
	// failed reports vendor-side call failure; ok is false when the
	// result is not (or no longer) available.
	APICallResult(pipe HSteamPipe, call steamworks.APICall, size int, expect CallbackID) (data []byte, failed bool, ok bool)

	// Interface accessors. Each resolves the vendor's versioned accessor
	// and fails when no session is active.
	Utils() (Utils, error)
	User() (User, error)
	Friends() (Friends, error)
	Apps() (Apps, error)
	UserStats() (UserStats, error)
}

// Utils is the raw ISteamUtils capability.
type Utils interface {
	// ServerRealTime returns the vendor server clock in unix seconds.
	ServerRealTime() uint32

	// AppID returns the app the session was initialized for.
	AppID() steamworks.AppID

	// IPCountry returns the two-letter country code of the client's
	// egress, per the vendor's IP database.
	IPCountry() string

	// SecondsSinceAppActive returns the uptime of the app context.
	SecondsSinceAppActive() uint32

	// IsSteamRunningOnSteamDeck reports the handheld environment flag.
	IsSteamRunningOnSteamDeck() bool

	// CheckFileSignature starts an async ownership-signature check.
	// Completion arrives as CallbackCheckFileSignature via the dispatch
	// queue. Returns InvalidAPICall on issuance failure.
	CheckFileSignature(path string) steamworks.APICall
}

// User is the raw ISteamUser capability.
type User interface {
	// SteamID returns the account identifier of the logged-in user.
	SteamID() steamworks.SteamID

	// LoggedOn reports whether the client has a live connection to the
	// vendor backend.
	LoggedOn() bool

	// AuthSessionTicket issues a session auth ticket. The ticket bytes
	// are valid immediately; CallbackAuthTicketResponse is broadcast
	// once the backend has validated it.
	AuthSessionTicket() (ticket steamworks.HAuthTicket, data []byte, err error)

	// CancelAuthTicket invalidates a previously issued ticket.
	CancelAuthTicket(ticket steamworks.HAuthTicket)
}

// Friends is the raw ISteamFriends capability.
type Friends interface {
	// PersonaName returns the local user's display name.
	PersonaName() string

	// PersonaState returns the local user's presence.
	PersonaState() EPersonaState
}

// Apps is the raw ISteamApps capability.
type Apps interface {
	// CurrentGameLanguage returns the language the app should run in.
	CurrentGameLanguage() string

	// IsSubscribed reports whether the account owns the current app.
	IsSubscribed() bool

	// AppBuildID returns the installed build of the current app.
	AppBuildID() int32

	// IsDLCInstalled reports whether the given DLC is installed.
	IsDLCInstalled(app steamworks.AppID) bool
}

// UserStats is the raw ISteamUserStats capability.
type UserStats interface {
	// RequestUserStats starts an async stats fetch for one account.
	// Completion arrives as CallbackUserStatsReceived through the
	// call-result path. Returns InvalidAPICall on issuance failure.
	RequestUserStats(user steamworks.SteamID) steamworks.APICall

	// RequestCurrentStats starts an async fetch of the local user's
	// stats. Completion is broadcast as CallbackUserStatsReceived.
	RequestCurrentStats() bool

	// Achievement reports whether the named achievement is unlocked.
	Achievement(name string) (achieved bool, err error)

	// SetAchievement marks the named achievement unlocked locally.
	// StoreStats must run for the change to persist.
	SetAchievement(name string) error

	// StoreStats persists locally modified stats to the backend.
	StoreStats() error
}
