package bollywood

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// resultKind distinguishes a continuation's two possible outcomes.
type resultKind int

const (
	resultNone resultKind = iota
	resultReturn
	resultException
)

// continuationState: start -> waiting | signaled -> done. waiting means
// the caller parked first; signaled means the reply arrived before the
// caller ever parked, so it never has to.
type continuationState int

const (
	stateStart continuationState = iota
	stateWaiting
	stateSignaled
	stateDone
)

// continuation is the synchronization object linking a caller to a
// future reply. queued enqueues task on its target actor and, for a
// blocking form, parks until the reply is observed; resolve is called
// by the worker delivering the reply.
type continuation interface {
	queued(task *Task) (interface{}, error)
	resolve(kind resultKind, value interface{}, err error)
	tag() string
}

// nilContinuation is fire-and-forget. The caller never waits; an
// exception raised by the handler is redirected to the invoked actor's
// own ExceptionHandler rather than reported back to a caller that isn't
// waiting for anything.
type nilContinuation struct {
	target Name
}

func newNilContinuation(target Name) *nilContinuation {
	return &nilContinuation{target: target}
}

func (n *nilContinuation) tag() string { return "" }

func (n *nilContinuation) queued(task *Task) (interface{}, error) {
	task.Target.enqueue(task)
	return nil, nil
}

func (n *nilContinuation) resolve(kind resultKind, _ interface{}, err error) {
	if kind == resultException {
		tell(n.target, exceptionSelector, err)
	}
}

// rpc is the synchronous rendezvous: the caller parks on the condition
// variable until the reply resolves it. When the caller is itself an
// actor, queued installs an "only" override on the calling actor's own
// gate, freezing its mailbox except for this reply's tag while its
// logical execution slot is occupied by a parked thread; the override
// is cleared on wake.
type rpc struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state continuationState

	kind  resultKind
	value interface{}
	err   error

	caller *Actor
	sched  *Scheduler
	tagStr string
}

func newRPC(caller *Actor, sched *Scheduler) *rpc {
	r := &rpc{state: stateStart, caller: caller, sched: sched, tagStr: uuid.NewString()}
	r.cond = sync.NewCond(&r.mu)
	return r
}

func (r *rpc) tag() string { return r.tagStr }

// queued enqueues task on the target, tells the scheduler this thread
// is suspended, and parks until resolve signals the reply.
func (r *rpc) queued(task *Task) (interface{}, error) {
	r.mu.Lock()
	if r.state == stateStart {
		r.state = stateWaiting
		if r.caller != nil {
			r.caller.gate.InstallOnly(r.tagStr, "continuation")
		}
		task.Target.enqueue(task)
		r.sched.SuspendNotification(r)
		for r.state == stateWaiting {
			r.cond.Wait()
		}
		if r.caller != nil {
			r.caller.gate.ClearOnly(r.tagStr)
		}
	}
	if r.state != stateDone && r.state != stateSignaled {
		r.mu.Unlock()
		panic(&ErrInvariantViolation{
			What: fmt.Sprintf("continuation %s woke in state %d, want done or signaled", r.tagStr, r.state),
		})
	}
	kind, value, err := r.kind, r.value, r.err
	// The done value is read exactly once by the caller; clearing it
	// here makes a second read observably wrong rather than silently
	// stale.
	r.value, r.err = nil, nil
	r.mu.Unlock()

	if kind == resultException {
		return nil, chainDeadlock(err)
	}
	return value, nil
}

// resolve publishes the reply and wakes the parked caller, if any.
func (r *rpc) resolve(kind resultKind, value interface{}, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kind, r.value, r.err = kind, value, err
	switch r.state {
	case stateStart:
		// The reply beat the caller to the park: jump straight to
		// signaled so the caller never waits.
		r.state = stateSignaled
	case stateWaiting:
		r.state = stateDone
		r.sched.WakeupNotification(r)
		r.cond.Signal()
	}
}

// Future is a deferred-reply handle whose await may happen later, on a
// different goroutine. It is intentionally a stub: RPC and Nil cover
// every caller this runtime has, and a half-invented await protocol
// would be worse than an honest error. It does not implement the
// continuation interface and nothing constructs one internally; Await
// always reports ErrFutureUnsupported.
type Future struct {
	target Name
}

// ErrFutureUnsupported is returned by Future.Await. See the Future
// type's doc comment.
var ErrFutureUnsupported = fmt.Errorf("bollywood: Future is unimplemented, use Call (RPC) or Tell (Nil)")

// Await always returns ErrFutureUnsupported.
func (f *Future) Await() (interface{}, error) {
	return nil, ErrFutureUnsupported
}
