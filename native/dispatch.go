package native

import (
	"encoding/binary"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

// CallbackMsg is one drained entry from the vendor callback queue. Data
// is an owned copy of the native payload; it stays valid after the
// underlying slot has been freed.
type CallbackMsg struct {
	Data []byte
	User HSteamUser
	ID   CallbackID
}

// Wire sizes of the dispatch payloads on 64-bit targets. Exported so
// call sites can size their result fetch when tracking an async call.
const (
	APICallCompletedSize         = 16
	CheckFileSignatureResultSize = 4
	AuthTicketResponseSize       = 8
	UserStatsReceivedSize        = 24
)

// APICallCompleted announces that an async request finished and its
// result payload can be fetched. Wire layout: call handle (u64),
// completion callback id (i32), payload size (u32).
type APICallCompleted struct {
	Call steamworks.APICall
	ID   CallbackID
	Size uint32
}

// EncodeAPICallCompleted renders the announcement in wire layout.
func EncodeAPICallCompleted(c APICallCompleted) []byte {
	b := make([]byte, APICallCompletedSize)
	binary.LittleEndian.PutUint64(b[0:], uint64(c.Call))
	binary.LittleEndian.PutUint32(b[8:], uint32(c.ID))
	binary.LittleEndian.PutUint32(b[12:], c.Size)
	return b
}

// DecodeAPICallCompleted parses the announcement payload.
func DecodeAPICallCompleted(b []byte) (APICallCompleted, error) {
	if len(b) < APICallCompletedSize {
		return APICallCompleted{}, errors.NativeCall("dispatch.decode",
			"api call completed payload truncated")
	}
	return APICallCompleted{
		Call: steamworks.APICall(binary.LittleEndian.Uint64(b[0:])),
		ID:   CallbackID(binary.LittleEndian.Uint32(b[8:])),
		Size: binary.LittleEndian.Uint32(b[12:]),
	}, nil
}

// SteamShutdown is broadcast when the vendor client asks running apps
// to exit. The payload is empty; the callback id alone carries the
// meaning.
type SteamShutdown struct{}

const SteamShutdownSize = 0

// EncodeSteamShutdown renders the quit broadcast's (empty) payload.
func EncodeSteamShutdown() []byte {
	return nil
}

// CheckFileSignatureResult is the completion payload of
// Utils.CheckFileSignature.
type CheckFileSignatureResult struct {
	Signature ECheckFileSignature
}

func EncodeCheckFileSignature(r CheckFileSignatureResult) []byte {
	b := make([]byte, CheckFileSignatureResultSize)
	binary.LittleEndian.PutUint32(b, uint32(r.Signature))
	return b
}

func DecodeCheckFileSignature(b []byte) (CheckFileSignatureResult, error) {
	if len(b) < CheckFileSignatureResultSize {
		return CheckFileSignatureResult{}, errors.NativeCall("dispatch.decode",
			"file signature payload truncated")
	}
	return CheckFileSignatureResult{
		Signature: ECheckFileSignature(binary.LittleEndian.Uint32(b)),
	}, nil
}

// AuthTicketResponse is broadcast after User.AuthSessionTicket once the
// vendor has validated the issued ticket.
type AuthTicketResponse struct {
	Ticket steamworks.HAuthTicket
	Result EResult
}

func EncodeAuthTicketResponse(r AuthTicketResponse) []byte {
	b := make([]byte, AuthTicketResponseSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(r.Ticket))
	binary.LittleEndian.PutUint32(b[4:], uint32(r.Result))
	return b
}

func DecodeAuthTicketResponse(b []byte) (AuthTicketResponse, error) {
	if len(b) < AuthTicketResponseSize {
		return AuthTicketResponse{}, errors.NativeCall("dispatch.decode",
			"auth ticket payload truncated")
	}
	return AuthTicketResponse{
		Ticket: steamworks.HAuthTicket(binary.LittleEndian.Uint32(b[0:])),
		Result: EResult(binary.LittleEndian.Uint32(b[4:])),
	}, nil
}

// UserStatsReceived carries the outcome of a stats request. Wire layout:
// game id (u64), result (i32), 4 bytes padding, account id (u64).
type UserStatsReceived struct {
	GameID uint64
	Result EResult
	User   steamworks.SteamID
}

func EncodeUserStatsReceived(r UserStatsReceived) []byte {
	b := make([]byte, UserStatsReceivedSize)
	binary.LittleEndian.PutUint64(b[0:], r.GameID)
	binary.LittleEndian.PutUint32(b[8:], uint32(r.Result))
	binary.LittleEndian.PutUint64(b[16:], uint64(r.User))
	return b
}

func DecodeUserStatsReceived(b []byte) (UserStatsReceived, error) {
	if len(b) < UserStatsReceivedSize {
		return UserStatsReceived{}, errors.NativeCall("dispatch.decode",
			"user stats payload truncated")
	}
	return UserStatsReceived{
		GameID: binary.LittleEndian.Uint64(b[0:]),
		Result: EResult(binary.LittleEndian.Uint32(b[8:])),
		User:   steamworks.SteamID(binary.LittleEndian.Uint64(b[16:])),
	}, nil
}
