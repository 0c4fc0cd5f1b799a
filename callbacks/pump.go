package callbacks

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
	"github.com/wippyai/steamworks-go/session"
)

// Pump drains the vendor callback queue for one session. New enforces
// one pump per session; the pump subscribes to the session's lifecycle
// so pending records fail at shutdown instead of hanging.
//
// The dispatch entry points are thread-affine, so the pump must be bound
// before it can tick: Bind locks the calling goroutine to its OS thread
// and returns the only value that can run ticks. Run wraps that in a
// dedicated background goroutine for hosts that do not want to own the
// cadence themselves.
type Pump struct {
	sess  *session.Session
	reg   *Registry
	bound atomic.Bool
	inUse atomic.Bool
}

// pumps holds the one pump each session is allowed. The vendor queue is
// drained destructively, so a second pump on the same session would
// steal completions from the first.
var pumps sync.Map // *session.Session -> *Pump

// New returns the session's pump, creating it on first use and wiring
// its registry into the session's lifecycle events. Every later New for
// the same session hands back the same instance.
func New(sess *session.Session) *Pump {
	if existing, ok := pumps.Load(sess); ok {
		return existing.(*Pump)
	}
	p := &Pump{
		sess: sess,
		reg:  NewRegistry(),
	}
	if actual, loaded := pumps.LoadOrStore(sess, p); loaded {
		return actual.(*Pump)
	}
	sess.Subscribe(pumpObserver{p})
	return p
}

// pumpObserver fails pending work while the session is ShuttingDown,
// before the vendor teardown entry point runs, and reopens the registry
// when a new generation starts.
type pumpObserver struct {
	p *Pump
}

func (o pumpObserver) OnSessionEvent(evt session.Event, generation uint64) {
	switch evt {
	case session.EventInitialized:
		o.p.reg.reopen()
	case session.EventShuttingDown:
		o.p.reg.FailAll(errors.NotRunning("callbacks.pump"))
	}
}

// Registry returns the pending-call table the pump resolves into.
func (p *Pump) Registry() *Registry {
	return p.reg
}

// Bind locks the calling goroutine to its OS thread and returns the
// bound pump. The bound pump is owned by that goroutine: it must not be
// handed to another one. A second Bind fails with pump_thread_violation
// until the first is released by Unbind.
func (p *Pump) Bind() (*BoundPump, error) {
	if !p.bound.CompareAndSwap(false, true) {
		return nil, errors.PumpViolation("pump.bind", "pump already bound to another thread")
	}
	runtime.LockOSThread()
	return &BoundPump{p: p}, nil
}

// Run binds the pump on a fresh goroutine's thread and ticks it at the
// given interval until ctx ends or the session shuts down. It blocks;
// callers start it with go. The bridge keeps nothing alive for a host
// that neither Runs nor ticks: unpumped futures simply never resolve.
func (p *Pump) Run(ctx context.Context, interval time.Duration) error {
	bp, err := p.Bind()
	if err != nil {
		return err
	}
	defer bp.Unbind()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.sess.State() == session.StateShutdown {
				return nil
			}
			if err := bp.Once(); err != nil {
				return err
			}
		}
	}
}

// BoundPump is the thread-bound face of a Pump. NOT safe for concurrent
// use: exactly one goroutine, the one that called Bind, may tick it.
type BoundPump struct {
	p *Pump
}

// Once runs one pump tick: flush the vendor's frame, then drain every
// queued callback message in order. A tick outside the Running state is
// a no-op issuing zero native calls. Concurrent ticks fail loudly with
// pump_thread_violation.
func (b *BoundPump) Once() error {
	if !b.p.inUse.CompareAndSwap(false, true) {
		return errors.PumpViolation("pump.once", "concurrent pump tick")
	}
	defer b.p.inUse.Store(false)

	if err := b.p.sess.EnsureRunning(); err != nil {
		return nil
	}

	api := b.p.sess.API()
	pipe := api.Pipe()
	api.RunFrame(pipe)

	for {
		msg, ok := api.NextCallback(pipe)
		if !ok {
			return nil
		}
		b.dispatch(api, pipe, msg)
		api.FreeLastCallback(pipe)
	}
}

// Unbind releases the OS thread lock and frees the pump for a new Bind.
// The BoundPump must not be used afterwards. Per-thread vendor
// allocations are released on the way out while a session is still up.
func (b *BoundPump) Unbind() {
	if b.p.sess.EnsureRunning() == nil {
		b.p.sess.API().ReleaseCurrentThreadMemory()
	}
	runtime.UnlockOSThread()
	b.p.bound.Store(false)
}

// dispatch routes one drained message: completion announcements resolve
// their tracked record, everything else is broadcast to subscribers.
func (b *BoundPump) dispatch(api native.API, pipe native.HSteamPipe, msg native.CallbackMsg) {
	if msg.ID != native.CallbackAPICallCompleted {
		b.p.reg.broadcast(Event{ID: msg.ID, Data: msg.Data})
		return
	}

	completed, err := native.DecodeAPICallCompleted(msg.Data)
	if err != nil {
		Logger().Warn("malformed completion announcement", zap.Error(err))
		return
	}

	rec, ok := b.p.reg.take(completed.Call)
	if !ok {
		// Nobody tracked the call yet. The announcement carries enough
		// to fetch the result, so the outcome is stashed for a Track
		// that raced this tick, not thrown away.
		data, failed, fetched := api.APICallResult(pipe,
			completed.Call, int(completed.Size), completed.ID)
		if !fetched {
			b.p.reg.drop(completed.Call)
			return
		}
		out := Outcome{Data: data}
		if failed {
			out = Outcome{Err: errors.NativeCall("pump.result", "vendor reported call failure")}
		}
		b.p.reg.stash(completed.Call, out)
		return
	}

	data, failed, ok := api.APICallResult(pipe, rec.call, rec.size, rec.expect)
	if !ok {
		rec.resolve(Outcome{Err: errors.NativeCall("pump.result",
			"vendor did not return a result for a completed call")})
		return
	}
	if failed {
		rec.resolve(Outcome{Err: errors.NativeCall("pump.result", "vendor reported call failure")})
		return
	}
	rec.resolve(Outcome{Data: data})
}
