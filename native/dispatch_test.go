package native

import (
	"encoding/binary"
	"testing"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

func TestDecodeAPICallCompleted_WireLayout(t *testing.T) {
	// Hand-built payload: call handle at offset 0, callback id at 8,
	// payload size at 12, all little endian.
	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b[0:], 0xDEADBEEF01)
	binary.LittleEndian.PutUint32(b[8:], 705)
	binary.LittleEndian.PutUint32(b[12:], 4)

	got, err := DecodeAPICallCompleted(b)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Call != steamworks.APICall(0xDEADBEEF01) {
		t.Errorf("Call = %#x, want 0xDEADBEEF01", uint64(got.Call))
	}
	if got.ID != CallbackCheckFileSignature {
		t.Errorf("ID = %d, want %d", got.ID, CallbackCheckFileSignature)
	}
	if got.Size != 4 {
		t.Errorf("Size = %d, want 4", got.Size)
	}
}

func TestDecodeUserStatsReceived_WireLayout(t *testing.T) {
	// Game id at 0, result at 8, account id at 16 (4 bytes padding
	// between result and account id).
	b := make([]byte, 24)
	binary.LittleEndian.PutUint64(b[0:], 480)
	binary.LittleEndian.PutUint32(b[8:], uint32(EResultOK))
	binary.LittleEndian.PutUint64(b[16:], 76561197960278073)

	got, err := DecodeUserStatsReceived(b)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.GameID != 480 {
		t.Errorf("GameID = %d, want 480", got.GameID)
	}
	if got.Result != EResultOK {
		t.Errorf("Result = %d, want %d", got.Result, EResultOK)
	}
	if got.User != steamworks.SteamID(76561197960278073) {
		t.Errorf("User = %d", got.User)
	}
}

func TestDecodeAuthTicketResponse_WireLayout(t *testing.T) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], 7)
	binary.LittleEndian.PutUint32(b[4:], uint32(EResultExpired))

	got, err := DecodeAuthTicketResponse(b)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Ticket != steamworks.HAuthTicket(7) {
		t.Errorf("Ticket = %d, want 7", got.Ticket)
	}
	if got.Result != EResultExpired {
		t.Errorf("Result = %d, want %d", got.Result, EResultExpired)
	}
}

func TestDecode_Truncated(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) error
	}{
		{
			name: "api call completed",
			decode: func(b []byte) error {
				_, err := DecodeAPICallCompleted(b)
				return err
			},
		},
		{
			name: "check file signature",
			decode: func(b []byte) error {
				_, err := DecodeCheckFileSignature(b)
				return err
			},
		},
		{
			name: "auth ticket response",
			decode: func(b []byte) error {
				_, err := DecodeAuthTicketResponse(b)
				return err
			},
		},
		{
			name: "user stats received",
			decode: func(b []byte) error {
				_, err := DecodeUserStatsReceived(b)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode([]byte{0x01, 0x02})
			if err == nil {
				t.Fatal("expected error on truncated payload")
			}
			if !errors.IsKind(err, errors.KindNativeCallFailure) {
				t.Errorf("kind = %q, want %q", errors.KindOf(err), errors.KindNativeCallFailure)
			}
		})
	}
}

func TestEResult_Message(t *testing.T) {
	tests := []struct {
		result EResult
		ok     bool
		want   string
	}{
		{EResultOK, true, "success"},
		{EResultTimeout, false, "operation timed out"},
		{EResult(9999), false, "vendor result 9999"},
	}

	for _, tt := range tests {
		if got := tt.result.Message(); got != tt.want {
			t.Errorf("Message(%d) = %q, want %q", tt.result, got, tt.want)
		}
		if got := tt.result.OK(); got != tt.ok {
			t.Errorf("OK(%d) = %v, want %v", tt.result, got, tt.ok)
		}
	}
}
