package bollywood

// Behavior is the method-bearing object an actor currently dispatches
// against. Go has no dynamic method interception, so the method being
// invoked arrives as an explicit selector string; user-facing
// "name.method(args)" sugar is left to handwritten per-behavior
// wrapper types over this primitive; this package ships none.
type Behavior interface {
	// Receive handles one task's Selector/Args and returns the value to
	// resolve the caller's continuation with, or an error to resolve it
	// with instead. Receive runs with the guarantee that no other task
	// of the same actor is executing concurrently.
	Receive(ctx *Context, selector string, args interface{}) (interface{}, error)
}

// Bound is an optional interface a Behavior can implement to be
// notified when it takes effect: after a Become, once the swap has been
// applied and before the next message is admitted, and once at Spawn
// for the initial behavior, delivered as the actor's first message. A
// Bound that adjusts the gate (Refuse, Accept) is therefore guaranteed
// to run before any message the new policy should govern.
type Bound interface {
	Bound(ctx *Context)
}

// ExceptionHandler is an optional interface a Behavior can implement to
// receive exceptions redirected from a fire-and-forget call: the sender
// isn't waiting, so the error lands on the actor that raised it. A
// behavior that does not implement it simply drops the redirected
// exception.
type ExceptionHandler interface {
	Exception(ctx *Context, err error)
}

// DeadlockHandler is an optional interface a Behavior can implement to
// receive the synthetic deadlock message the scheduler delivers to
// every live actor when it finds the system unable to make progress,
// giving user code a single chance to break the cycle. A behavior that
// does not implement it cannot participate in breaking the deadlock.
// HandleDeadlock runs on the dispatcher goroutine and must not make
// blocking calls.
type DeadlockHandler interface {
	HandleDeadlock(ctx *Context, d *Deadlock)
}
