package bollywood

import "fmt"

// ErrActorTerminated is returned by a synchronous call addressed to the
// zero Name, which names no actor.
var ErrActorTerminated = fmt.Errorf("bollywood: actor terminated")

// ErrInvariantViolation is raised when an internal invariant the runtime
// depends on does not hold: a continuation woke with a state other than
// done or signaled, or the dispatcher found the ready queue non-empty at shutdown.
// It is fatal; the runtime aborts rather than continuing in an unknown
// state.
type ErrInvariantViolation struct {
	What string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("bollywood: internal invariant violation: %s", e.What)
}

// Deadlock is delivered to every live actor when the scheduler finds no
// thread running, no task ready, and continuations still parked while
// the runtime is not draining. If a second check still finds the same
// condition after the deadlock message has been delivered, the runtime
// wraps the Deadlock and re-raises it to the host program.
//
// Next chains Deadlock values: a deadlock observed while propagating
// another deadlock is wrapped rather than discarded, so the chain
// survives re-raise through a continuation's exception path.
type Deadlock struct {
	Next *Deadlock
}

func (d *Deadlock) Error() string {
	if d.Next != nil {
		return "bollywood: deadlock detected (chained)"
	}
	return "bollywood: deadlock detected"
}

func (d *Deadlock) Unwrap() error {
	if d.Next == nil {
		return nil
	}
	return d.Next
}

// chainDeadlock wraps err in a fresh Deadlock when err is itself one,
// so the propagation chain is preserved instead of the original context
// being discarded.
func chainDeadlock(err error) error {
	if dl, ok := err.(*Deadlock); ok {
		return &Deadlock{Next: dl}
	}
	return err
}
