package bollywood

import "github.com/google/uuid"

// Name is the opaque, hashable, cheaply-copyable handle to an actor. It
// is a small value type (a uuid.UUID plus a pointer back to the owning
// Actor) so it can be copied freely, compared with ==, and used as a
// map key, while method dispatch resolves directly to the actor without
// a registry lookup.
type Name struct {
	id    uuid.UUID
	actor *Actor
}

// String returns a short, human-readable label for logging. It carries
// no semantic weight.
func (n Name) String() string {
	if n.actor == nil {
		return "bollywood.Name(nil)"
	}
	return n.actor.label + "-" + n.id.String()[:8]
}

// Equal reports whether n and o name the same actor.
func (n Name) Equal(o Name) bool {
	return n.id == o.id
}

// IsZero reports whether n is the zero Name, which names no actor.
func (n Name) IsZero() bool {
	return n.actor == nil
}

// Call sends selector/args to the named actor and blocks until the
// handler's return value or error comes back. It is the uniform
// send(selector, args) -> result primitive; typed per-behavior wrappers
// can build their method sugar on top of it. Call is
// meant for goroutines outside any actor -- the host program's main
// goroutine, a test -- and counts the calling goroutine as a running
// thread while it blocks; a handler calling another actor must go
// through Context.Call instead, so the blocking continuation accounts
// against its own worker.
func (n Name) Call(selector string, args interface{}) (interface{}, error) {
	return invokeRPC(n, nil, selector, args)
}

// Tell sends a fire-and-forget message directly, without going through
// Release. It is equivalent to Release(n).Tell(selector, args).
func (n Name) Tell(selector string, args interface{}) {
	invokeNil(n, Name{}, selector, args)
}

// Released is a view of a Name whose method invocations are
// fire-and-forget: no reply, no blocking, and a handler error goes to
// the target's own ExceptionHandler.
type Released struct {
	name Name
}

// Release returns the fire-and-forget view of n.
func Release(n Name) Released {
	return Released{name: n}
}

// Call enqueues selector/args on the released Name's actor and returns
// immediately; any exception raised by the handler is redirected to the
// target's own ExceptionHandler rather than returned here.
func (r Released) Call(selector string, args interface{}) (interface{}, error) {
	invokeNil(r.name, Name{}, selector, args)
	return nil, nil
}

// Tell is an alias for Call kept for symmetry with Name.Tell.
func (r Released) Tell(selector string, args interface{}) {
	invokeNil(r.name, Name{}, selector, args)
}

func invokeRPC(target Name, caller *Actor, selector string, args interface{}) (interface{}, error) {
	if target.actor == nil {
		return nil, ErrActorTerminated
	}
	sched := target.actor.scheduler
	r := newRPC(caller, sched)
	task := &Task{Target: target.actor, Selector: selector, Args: args, Tag: r.tagStr, cont: r}
	if caller == nil {
		// A goroutine the scheduler has never counted is about to block
		// inside the runtime; check it in as a running thread for the
		// duration so the deadlock criterion sees it.
		sched.enterExternal()
		defer sched.exitExternal()
	} else {
		task.caller = caller.name
	}
	return r.queued(task)
}

func invokeNil(target Name, caller Name, selector string, args interface{}) {
	if target.actor == nil {
		return
	}
	n := newNilContinuation(target)
	task := &Task{Target: target.actor, Selector: selector, Args: args, caller: caller, cont: n}
	_, _ = n.queued(task)
}

// tell is the package-internal helper used by nilContinuation to
// redirect an exception to its target's own exception handler.
func tell(target Name, selector string, args interface{}) {
	invokeNil(target, Name{}, selector, args)
}
