package bollywood

import (
	"errors"
	"sync"
)

// Runtime is the process-wide facade: actor creation, lifecycle
// (Quiesce / Reset), and exception aggregation. Most programs use the
// package-level Default() singleton; NewRuntime exists for tests and
// hosts that want isolated state.
type Runtime struct {
	cfg       RuntimeConfig
	scheduler *Scheduler

	excMu      sync.Mutex
	exceptions []error
}

// NewRuntime returns a fresh Runtime configured by cfg.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	rt := &Runtime{cfg: cfg}
	rt.scheduler = NewScheduler(cfg, rt.recordException)
	return rt
}

// recordException captures errors that escape delivery -- an unresolved
// deadlock, a worker panic -- for re-raise at the next Quiesce.
func (rt *Runtime) recordException(err error) {
	rt.excMu.Lock()
	rt.exceptions = append(rt.exceptions, err)
	rt.excMu.Unlock()
}

// Spawn creates a new actor bound to behavior and returns its Name.
// label is used only for Name.String(). If behavior implements Bound,
// the callback is delivered as the actor's first message, ahead of
// anything sent to the returned Name, so a behavior can set up its gate
// and send itself work before the outside world gets a word in.
func (rt *Runtime) Spawn(behavior Behavior, label string) Name {
	a := newActor(rt.scheduler, label, behavior)
	rt.scheduler.registerActor(a)
	if _, ok := behavior.(Bound); ok {
		a.enqueue(&Task{Target: a, Selector: boundSelector, cont: newNilContinuation(a.name)})
	}
	return a.name
}

// Quiesce blocks the calling goroutine until all actors are idle and
// the ready queue is empty, then re-raises any aggregated exceptions.
// The quiescing flag suppresses the deadlock criterion while draining:
// parked continuations that resolve on their own as the system winds
// down are expected, not stuck.
func (rt *Runtime) Quiesce() error {
	rt.scheduler.setQuiescing(true)
	rt.scheduler.awaitDrain()
	rt.scheduler.setQuiescing(false)
	return rt.drainExceptions()
}

func (rt *Runtime) drainExceptions() error {
	rt.excMu.Lock()
	defer rt.excMu.Unlock()
	if len(rt.exceptions) == 0 {
		return nil
	}
	err := errors.Join(rt.exceptions...)
	rt.exceptions = nil
	return err
}

// Reset tears down the scheduler, pool, and live-actor set, discarding
// any outstanding aggregated exceptions. Tests call this between cases.
func (rt *Runtime) Reset() {
	rt.scheduler.reset()
	rt.excMu.Lock()
	rt.exceptions = nil
	rt.excMu.Unlock()
}

var (
	defaultMu sync.Mutex
	defaultRT *Runtime
)

// Default returns the process-wide Runtime singleton, creating it with
// DefaultRuntimeConfig on first use.
func Default() *Runtime {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		defaultRT = NewRuntime(DefaultRuntimeConfig())
	}
	return defaultRT
}

// ResetDefault tears down and discards the default Runtime singleton;
// the next Default() call builds a fresh one.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT != nil {
		defaultRT.Reset()
	}
	defaultRT = nil
}

// Spawn spawns behavior on the default Runtime.
func Spawn(behavior Behavior, label string) Name {
	return Default().Spawn(behavior, label)
}

// Quiesce drains the default Runtime.
func Quiesce() error {
	return Default().Quiesce()
}
