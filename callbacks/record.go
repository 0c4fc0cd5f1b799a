package callbacks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/native"
)

// Outcome is the terminal value of one pending call: the raw result
// payload on success, a translated bridge error on failure.
type Outcome struct {
	Data []byte
	Err  error
}

// Record links one issued async request to its eventual completion. It
// resolves at most once: through the pump when the vendor reports the
// result, through FailAll when the session shuts down, or never, if the
// host stops pumping. The zero Record is not usable; Registry.Track is
// the only constructor.
type Record struct {
	reg    *Registry
	call   steamworks.APICall
	expect native.CallbackID
	size   int

	once      sync.Once
	done      chan Outcome
	discarded atomic.Bool
}

// Call returns the vendor handle of the tracked request.
func (r *Record) Call() steamworks.APICall {
	return r.call
}

// Done returns the completion channel. It receives exactly one Outcome,
// and only while somebody keeps pumping.
func (r *Record) Done() <-chan Outcome {
	return r.done
}

// Wait blocks in the host's own primitives until the record resolves or
// ctx ends. A ctx error discards the record: a late vendor delivery is
// then dropped, because the native layer offers no cancellation.
func (r *Record) Wait(ctx context.Context) (Outcome, error) {
	select {
	case out := <-r.done:
		return out, out.Err
	case <-ctx.Done():
		r.Discard()
		return Outcome{}, ctx.Err()
	}
}

// Discard drops host interest in the record. The eventual vendor
// delivery, if any, is silently dropped. Safe to call more than once
// and after resolution.
func (r *Record) Discard() {
	if r.discarded.Swap(true) {
		return
	}
	r.reg.forget(r.call)
}

// resolve delivers the outcome exactly once. The channel is buffered,
// so resolution never blocks the pump on a slow or absent waiter.
func (r *Record) resolve(out Outcome) {
	r.once.Do(func() {
		r.done <- out
	})
}

// Call is a typed future over a Record: the raw payload decoded into the
// completion struct of the operation that issued it.
type Call[T any] struct {
	rec    *Record
	decode func([]byte) (T, error)
}

// Typed wraps a record with the decoder for its completion payload.
func Typed[T any](rec *Record, decode func([]byte) (T, error)) *Call[T] {
	return &Call[T]{rec: rec, decode: decode}
}

// Record returns the underlying untyped record.
func (c *Call[T]) Record() *Record {
	return c.rec
}

// Wait resolves like Record.Wait, then decodes the payload.
func (c *Call[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	out, err := c.rec.Wait(ctx)
	if err != nil {
		return zero, err
	}
	return c.decode(out.Data)
}

// Discard drops host interest in the pending call.
func (c *Call[T]) Discard() {
	c.rec.Discard()
}
