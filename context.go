package bollywood

import "time"

// Context is the explicit handle a Behavior's Receive is given into its
// own actor and the surrounding runtime. Actor identity is threaded
// through explicitly rather than recovered from an ambient
// thread-local, so Context -- not a package-level "current actor"
// lookup -- is how a handler reaches back into its own actor and how a
// blocking Call installs its gate override on the right actor.
type Context struct {
	self   *Actor
	caller Name
}

// Self returns the Name of the actor executing this handler.
func (c *Context) Self() Name {
	return c.self.name
}

// Caller returns the Name of the actor whose handler sent the message
// being delivered, or the zero Name when it came from outside any actor
// (the host program's main goroutine, typically).
func (c *Context) Caller() Name {
	return c.caller
}

// Call performs a synchronous call to target, exactly like Name.Call,
// except that -- because the caller is itself an actor -- the blocking
// continuation installs its gate override on this actor, so no other
// message to this actor is admitted while the call is outstanding.
func (c *Context) Call(target Name, selector string, args interface{}) (interface{}, error) {
	return invokeRPC(target, c.self, selector, args)
}

// Tell sends a fire-and-forget message to target.
func (c *Context) Tell(target Name, selector string, args interface{}) {
	invokeNil(target, c.self.name, selector, args)
}

// Become requests a behavior swap; it takes effect only after Receive
// returns, and never drops or reorders queued messages.
func (c *Context) Become(b Behavior) {
	c.self.become(b)
}

// Refuse adds method to this actor's gate refuse-set.
func (c *Context) Refuse(method string) {
	c.self.refuse(method)
}

// Accept removes method from this actor's gate refuse-set.
func (c *Context) Accept(method string) {
	c.self.accept(method)
}

// Yield is a voluntary, time-based suspension that releases this
// actor's execution slot for the duration, so other admitted messages
// to this same actor run while the handler sleeps, then re-acquires the
// slot before the handler resumes. Anything the gate refuses stays
// refused throughout. A zero or negative duration returns immediately.
func (c *Context) Yield(d time.Duration) {
	if d <= 0 {
		return
	}
	a := c.self
	sched := a.scheduler

	a.mu.Lock()
	a.scheduling = false
	next := a.admitLocked()
	a.mu.Unlock()
	if next != nil {
		sched.Schedule(next)
	}

	// Only the actor's execution slot is given up: the worker stays
	// checked in as a running thread while it sleeps, the same as a
	// handler that calls time.Sleep directly, so the deadlock detector
	// never has to reason about pending timers.
	time.Sleep(d)

	// Re-acquire the slot by queueing behind whatever ran meanwhile. The
	// resume task is admitted like any other, so a handler that slipped
	// in and is still executing (or blocking on its own call) finishes
	// first. An error here means the runtime aborted mid-yield; the
	// handler resumes so its delivery can unwind.
	r := newRPC(nil, sched)
	task := &Task{Target: a, Selector: resumeSelector, Tag: r.tagStr, cont: r}
	_, _ = r.queued(task)
}
