package callbacks

import (
	"context"
	"testing"
	"time"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
)

func TestRegistry_TrackIsIdempotent(t *testing.T) {
	reg := NewRegistry()

	a := reg.Track(7, native.CallbackCheckFileSignature, 16)
	b := reg.Track(7, native.CallbackCheckFileSignature, 16)
	if a != b {
		t.Error("tracking the same call twice returned distinct records")
	}
	if got := reg.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestRegistry_WaitContextDiscards(t *testing.T) {
	reg := NewRegistry()
	rec := reg.Track(9, native.CallbackCheckFileSignature, 16)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := rec.Wait(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Wait = %v, want deadline exceeded", err)
	}
	// The record left the table: a late delivery would be dropped.
	if got := reg.Len(); got != 0 {
		t.Errorf("Len after context discard = %d, want 0", got)
	}
}

func TestRegistry_FailAllResolvesEverything(t *testing.T) {
	reg := NewRegistry()
	records := []*Record{
		reg.Track(1, native.CallbackCheckFileSignature, 16),
		reg.Track(2, native.CallbackUserStatsReceived, 24),
		reg.Track(3, native.CallbackCheckFileSignature, 16),
	}

	reg.FailAll(errors.NotRunning("test"))

	for i, rec := range records {
		select {
		case out := <-rec.Done():
			if !errors.IsKind(out.Err, errors.KindSessionNotRunning) {
				t.Errorf("record %d error = %v, want session_not_running", i, out.Err)
			}
		default:
			t.Errorf("record %d not resolved by FailAll", i)
		}
	}
	if got := reg.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestRegistry_SubscribeCancel(t *testing.T) {
	reg := NewRegistry()

	var hits int
	cancel := reg.Subscribe(native.CallbackIPCountry, func(Event) { hits++ })

	reg.broadcast(Event{ID: native.CallbackIPCountry})
	cancel()
	reg.broadcast(Event{ID: native.CallbackIPCountry})

	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestRegistry_BroadcastOnlyMatchingID(t *testing.T) {
	reg := NewRegistry()

	var country, stats int
	reg.Subscribe(native.CallbackIPCountry, func(Event) { country++ })
	reg.Subscribe(native.CallbackUserStatsReceived, func(Event) { stats++ })

	reg.broadcast(Event{ID: native.CallbackIPCountry})

	if country != 1 || stats != 0 {
		t.Errorf("country = %d stats = %d, want 1 and 0", country, stats)
	}
}

func TestRegistry_TrackAfterFailAllResolvesFailed(t *testing.T) {
	reg := NewRegistry()
	reg.FailAll(errors.NotRunning("test"))

	rec := reg.Track(4, native.CallbackCheckFileSignature, 16)
	select {
	case out := <-rec.Done():
		if !errors.IsKind(out.Err, errors.KindSessionNotRunning) {
			t.Errorf("outcome error = %v, want session_not_running", out.Err)
		}
	default:
		t.Fatal("record tracked after FailAll did not resolve")
	}
	if got := reg.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestRegistry_StashedCompletionResolvesLateTrack(t *testing.T) {
	reg := NewRegistry()
	reg.stash(5, Outcome{Data: []byte{7}})

	rec := reg.Track(5, native.CallbackCheckFileSignature, 16)
	select {
	case out := <-rec.Done():
		if out.Err != nil || len(out.Data) != 1 || out.Data[0] != 7 {
			t.Errorf("outcome = %+v, want stashed payload", out)
		}
	default:
		t.Fatal("stashed completion not handed to the late Track")
	}
	if got := reg.Len(); got != 0 {
		t.Errorf("Len = %d, want 0 (resolved record is not pending)", got)
	}
	if got := reg.Dropped(); got != 0 {
		t.Errorf("Dropped = %d, want 0", got)
	}
}

func TestRegistry_EarlyTableBounded(t *testing.T) {
	reg := NewRegistry()
	for i := 1; i <= earlyLimit+3; i++ {
		reg.stash(steamworks.APICall(i), Outcome{Data: []byte{byte(i)}})
	}

	if got := reg.Dropped(); got != 3 {
		t.Fatalf("Dropped = %d, want 3 (oldest entries evicted)", got)
	}

	// The evicted oldest entry is gone: tracking it goes pending.
	oldest := reg.Track(1, native.CallbackCheckFileSignature, 16)
	select {
	case out := <-oldest.Done():
		t.Fatalf("evicted completion still resolved: %+v", out)
	default:
	}

	// The newest entry survived and resolves its Track.
	newest := reg.Track(steamworks.APICall(earlyLimit+3), native.CallbackCheckFileSignature, 16)
	select {
	case <-newest.Done():
	default:
		t.Fatal("retained completion did not resolve its Track")
	}
}

func TestTypedCall_DecodesPayload(t *testing.T) {
	reg := NewRegistry()
	rec := reg.Track(11, native.CallbackCheckFileSignature, 16)
	call := Typed(rec, native.DecodeCheckFileSignature)

	rec.resolve(Outcome{Data: native.EncodeCheckFileSignature(
		native.CheckFileSignatureResult{Signature: native.CheckFileSignatureValid})})

	result, err := call.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if result.Signature != native.CheckFileSignatureValid {
		t.Errorf("signature = %v, want valid", result.Signature)
	}
}

func TestRecord_ResolveOnce(t *testing.T) {
	reg := NewRegistry()
	rec := reg.Track(steamworks.APICall(21), native.CallbackCheckFileSignature, 16)

	rec.resolve(Outcome{Data: []byte{1}})
	rec.resolve(Outcome{Data: []byte{2}}) // ignored

	out := <-rec.Done()
	if len(out.Data) != 1 || out.Data[0] != 1 {
		t.Errorf("outcome = %v, want first resolution", out.Data)
	}
}
