package callbacks

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
	"github.com/wippyai/steamworks-go/native"
)

// Event is a broadcast callback: a vendor message not tied to a tracked
// call, delivered to every subscriber of its identifier.
type Event struct {
	Data []byte
	ID   native.CallbackID
}

// earlyLimit bounds the table of completions drained before their call
// was tracked. Evicted entries are counted as dropped.
const earlyLimit = 64

// Registry is the pending-call table plus the broadcast subscriber list.
// The pump resolves tracked calls and fans out broadcasts through it;
// proxies track new calls into it. Safe for concurrent use.
//
// Issuing a native call and tracking it are two steps, and a pump tick
// can land between them. The registry absorbs both interleavings: a
// completion drained before Track is held in a bounded early table and
// handed to the eventual Track, and a Track that arrives after FailAll
// swept the table returns an already-failed record instead of one that
// can never resolve.
type Registry struct {
	mu      sync.Mutex
	pending map[steamworks.APICall]*Record
	subs    map[native.CallbackID]map[uint64]func(Event)
	nextSub uint64

	early      map[steamworks.APICall]Outcome
	earlyOrder []steamworks.APICall
	tombstones map[steamworks.APICall]struct{}
	failErr    error

	dropped atomic.Uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pending:    make(map[steamworks.APICall]*Record),
		subs:       make(map[native.CallbackID]map[uint64]func(Event)),
		early:      make(map[steamworks.APICall]Outcome),
		tombstones: make(map[steamworks.APICall]struct{}),
	}
}

// Track records an in-flight async request. expect is the callback
// identifier the completion will carry; size its payload size, passed to
// the vendor's result fetch. Tracking the same call twice returns the
// existing record.
//
// A Track that loses a race is still honored: if the pump already
// drained the completion, the returned record is resolved immediately
// from the early table; if FailAll already swept the registry, it is
// resolved with the sweep's error. Either way the record never hangs.
func (g *Registry) Track(call steamworks.APICall, expect native.CallbackID, size int) *Record {
	g.mu.Lock()

	if rec, ok := g.pending[call]; ok {
		g.mu.Unlock()
		return rec
	}

	rec := &Record{
		reg:    g,
		call:   call,
		expect: expect,
		size:   size,
		done:   make(chan Outcome, 1),
	}
	delete(g.tombstones, call)

	if out, arrived := g.early[call]; arrived {
		g.removeEarly(call)
		g.mu.Unlock()
		rec.resolve(out)
		return rec
	}
	if err := g.failErr; err != nil {
		g.mu.Unlock()
		rec.resolve(Outcome{Err: err})
		return rec
	}

	g.pending[call] = rec
	g.mu.Unlock()
	return rec
}

// take removes and returns the record for a completed call.
func (g *Registry) take(call steamworks.APICall) (*Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.pending[call]
	if ok {
		delete(g.pending, call)
	}
	return rec, ok
}

// forget removes a record without resolving it (host-side discard). The
// call handle is tombstoned so its eventual completion is counted as
// dropped instead of lingering in the early table.
func (g *Registry) forget(call steamworks.APICall) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[call]; ok {
		delete(g.pending, call)
		g.tombstones[call] = struct{}{}
	}
}

// stash holds a completion that was drained before its call was tracked.
// Discarded calls are counted dropped right away; everything else waits
// in the bounded early table for a Track that may never come.
func (g *Registry) stash(call steamworks.APICall, out Outcome) {
	g.mu.Lock()
	if _, discarded := g.tombstones[call]; discarded {
		delete(g.tombstones, call)
		g.mu.Unlock()
		g.drop(call)
		return
	}
	if g.failErr != nil {
		g.mu.Unlock()
		g.drop(call)
		return
	}

	var evicted []steamworks.APICall
	for len(g.earlyOrder) >= earlyLimit {
		oldest := g.earlyOrder[0]
		g.earlyOrder = g.earlyOrder[1:]
		delete(g.early, oldest)
		evicted = append(evicted, oldest)
	}
	g.early[call] = out
	g.earlyOrder = append(g.earlyOrder, call)
	g.mu.Unlock()

	for _, old := range evicted {
		g.drop(old)
	}
}

// removeEarly drops one entry from the early table. Caller holds mu.
func (g *Registry) removeEarly(call steamworks.APICall) {
	delete(g.early, call)
	for i, c := range g.earlyOrder {
		if c == call {
			g.earlyOrder = append(g.earlyOrder[:i], g.earlyOrder[i+1:]...)
			return
		}
	}
}

// drop counts a completion that arrived for an untracked or discarded
// call. Logged, never surfaced; not an error condition.
func (g *Registry) drop(call steamworks.APICall) {
	g.dropped.Add(1)
	Logger().Debug("callback dropped",
		zap.Uint64("call", uint64(call)),
		zap.String("kind", string(errors.KindCallbackDropped)))
}

// Dropped returns how many completions were dropped since construction.
func (g *Registry) Dropped() uint64 {
	return g.dropped.Load()
}

// Len returns the number of in-flight tracked calls.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// FailAll resolves every pending record with err and clears the table.
// Called at session shutdown so futures fail instead of hanging against
// a torn-down session. The registry latches err afterwards: a Track
// racing the sweep gets an already-failed record until reopen.
func (g *Registry) FailAll(err error) {
	g.mu.Lock()
	records := make([]*Record, 0, len(g.pending))
	for _, rec := range g.pending {
		records = append(records, rec)
	}
	g.pending = make(map[steamworks.APICall]*Record)
	orphaned := g.earlyOrder
	g.early = make(map[steamworks.APICall]Outcome)
	g.earlyOrder = nil
	g.tombstones = make(map[steamworks.APICall]struct{})
	g.failErr = err
	g.mu.Unlock()

	for _, call := range orphaned {
		g.drop(call)
	}
	for _, rec := range records {
		rec.resolve(Outcome{Err: err})
	}
	if len(records) > 0 {
		Logger().Debug("failed pending calls", zap.Int("count", len(records)))
	}
}

// reopen clears the FailAll latch when a new session generation starts.
func (g *Registry) reopen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failErr = nil
}

// Subscribe registers fn for every broadcast carrying id. fn runs on the
// pump goroutine and must return quickly. The returned cancel function
// removes the subscription; late events after cancel are dropped.
func (g *Registry) Subscribe(id native.CallbackID, fn func(Event)) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextSub++
	key := g.nextSub
	if g.subs[id] == nil {
		g.subs[id] = make(map[uint64]func(Event))
	}
	g.subs[id][key] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs[id], key)
	}
}

// broadcast fans an untracked callback out to its subscribers, in no
// particular subscriber order.
func (g *Registry) broadcast(evt Event) {
	g.mu.Lock()
	fns := make([]func(Event), 0, len(g.subs[evt.ID]))
	for _, fn := range g.subs[evt.ID] {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}
