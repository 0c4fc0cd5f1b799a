package native

import "strconv"

// HSteamPipe identifies one communication pipe to the vendor client.
type HSteamPipe int32

// HSteamUser identifies the user a pipe is bound to.
type HSteamUser int32

// CallbackID tags every message in the vendor's callback queue. Each
// callback struct has a fixed identifier assigned by the SDK headers.
type CallbackID int32

// Callback identifiers dispatched by the bridge. Values are fixed by the
// vendor SDK and must not be renumbered.
const (
	CallbackIPCountry          CallbackID = 701
	CallbackLowBatteryPower    CallbackID = 702
	CallbackAPICallCompleted   CallbackID = 703
	CallbackSteamShutdown      CallbackID = 704
	CallbackCheckFileSignature CallbackID = 705
	CallbackAuthTicketResponse CallbackID = 163
	CallbackUserStatsReceived  CallbackID = 1101
)

// EResult is the vendor's universal result code.
type EResult int32

const (
	EResultNone               EResult = 0
	EResultOK                 EResult = 1
	EResultFail               EResult = 2
	EResultNoConnection       EResult = 3
	EResultInvalidPassword    EResult = 5
	EResultLoggedInElsewhere  EResult = 6
	EResultInvalidParam       EResult = 8
	EResultFileNotFound       EResult = 9
	EResultBusy               EResult = 10
	EResultInvalidState       EResult = 11
	EResultAccessDenied       EResult = 15
	EResultTimeout            EResult = 16
	EResultBanned             EResult = 17
	EResultAccountNotFound    EResult = 18
	EResultInvalidSteamID     EResult = 19
	EResultServiceUnavailable EResult = 20
	EResultNotLoggedOn        EResult = 21
	EResultPending            EResult = 22
	EResultLimitExceeded      EResult = 25
	EResultExpired            EResult = 27
)

var eresultMessages = map[EResult]string{
	EResultNone:               "no result",
	EResultOK:                 "success",
	EResultFail:               "generic failure",
	EResultNoConnection:       "no connection to the vendor service",
	EResultInvalidPassword:    "invalid password or ticket",
	EResultLoggedInElsewhere:  "same user logged in elsewhere",
	EResultInvalidParam:       "invalid parameter",
	EResultFileNotFound:       "file not found",
	EResultBusy:               "method busy, no action taken",
	EResultInvalidState:       "called in the wrong state",
	EResultAccessDenied:       "access denied",
	EResultTimeout:            "operation timed out",
	EResultBanned:             "account banned",
	EResultAccountNotFound:    "account not found",
	EResultInvalidSteamID:     "invalid account identifier",
	EResultServiceUnavailable: "service unavailable",
	EResultNotLoggedOn:        "user not logged on",
	EResultPending:            "request pending",
	EResultLimitExceeded:      "limit exceeded",
	EResultExpired:            "ticket or license expired",
}

// OK reports whether the result denotes success.
func (r EResult) OK() bool {
	return r == EResultOK
}

// Message returns the human-readable meaning of the code. Unknown codes
// render numerically so no vendor value is ever swallowed.
func (r EResult) Message() string {
	if msg, ok := eresultMessages[r]; ok {
		return msg
	}
	return "vendor result " + strconv.FormatInt(int64(r), 10)
}

// InitResult is the result code of the vendor init entry point.
type InitResult int32

const (
	InitResultOK              InitResult = 0
	InitResultFailedGeneric   InitResult = 1
	InitResultNoSteamClient   InitResult = 2
	InitResultVersionMismatch InitResult = 3
)

// OK reports whether initialization succeeded.
func (r InitResult) OK() bool {
	return r == InitResultOK
}

// Message returns the human-readable meaning of the code.
func (r InitResult) Message() string {
	switch r {
	case InitResultOK:
		return "success"
	case InitResultFailedGeneric:
		return "initialization failed (invalid app id or client unreachable)"
	case InitResultNoSteamClient:
		return "client not running or unreachable"
	case InitResultVersionMismatch:
		return "client too old for this SDK"
	default:
		return "init result " + strconv.FormatInt(int64(r), 10)
	}
}

// ECheckFileSignature is the outcome of an ownership signature check.
type ECheckFileSignature int32

const (
	CheckFileSignatureInvalid            ECheckFileSignature = 0
	CheckFileSignatureValid              ECheckFileSignature = 1
	CheckFileSignatureFileNotFound       ECheckFileSignature = 2
	CheckFileSignatureNoSignaturesForApp ECheckFileSignature = 3
	CheckFileSignatureNoSignatureForFile ECheckFileSignature = 4
)

func (s ECheckFileSignature) String() string {
	switch s {
	case CheckFileSignatureInvalid:
		return "invalid signature"
	case CheckFileSignatureValid:
		return "valid signature"
	case CheckFileSignatureFileNotFound:
		return "file not found"
	case CheckFileSignatureNoSignaturesForApp:
		return "no signatures for app"
	case CheckFileSignatureNoSignatureForFile:
		return "no signature for file"
	default:
		return "signature result " + strconv.FormatInt(int64(s), 10)
	}
}

// EPersonaState describes a user's presence.
type EPersonaState int32

const (
	PersonaStateOffline        EPersonaState = 0
	PersonaStateOnline         EPersonaState = 1
	PersonaStateBusy           EPersonaState = 2
	PersonaStateAway           EPersonaState = 3
	PersonaStateSnooze         EPersonaState = 4
	PersonaStateLookingToTrade EPersonaState = 5
	PersonaStateLookingToPlay  EPersonaState = 6
	PersonaStateInvisible      EPersonaState = 7
)

func (s EPersonaState) String() string {
	switch s {
	case PersonaStateOffline:
		return "offline"
	case PersonaStateOnline:
		return "online"
	case PersonaStateBusy:
		return "busy"
	case PersonaStateAway:
		return "away"
	case PersonaStateSnooze:
		return "snooze"
	case PersonaStateLookingToTrade:
		return "looking to trade"
	case PersonaStateLookingToPlay:
		return "looking to play"
	case PersonaStateInvisible:
		return "invisible"
	default:
		return "persona state " + strconv.FormatInt(int64(s), 10)
	}
}
