package bollywood

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Actor binds a Behavior, owns a Mailbox and a Gate, and executes at
// most one task at a time. Delivery order is FIFO among the tasks the
// gate admits; anything refused stays queued until the gate changes its
// mind.
type Actor struct {
	name      Name
	label     string
	scheduler *Scheduler

	mu         sync.Mutex
	behavior   Behavior
	pending    Behavior
	mailbox    *Mailbox
	gate       *Gate
	scheduling bool
}

// newActor creates an Actor bound to behavior and wired to sched. label
// is used only for Name.String(); it carries no semantic weight.
func newActor(sched *Scheduler, label string, behavior Behavior) *Actor {
	a := &Actor{
		label:     label,
		scheduler: sched,
		behavior:  behavior,
		mailbox:   NewMailbox(),
		gate:      NewGate(),
	}
	a.name = Name{id: uuid.New(), actor: a}
	return a
}

// enqueue appends task to the mailbox and, if the gate admits a pending
// task and no task of this actor is currently in flight, hands that task
// to the scheduler. Every Call/Tell routes through here.
func (a *Actor) enqueue(task *Task) {
	a.mu.Lock()
	a.mailbox.push(task)
	ready := a.admitLocked()
	a.mu.Unlock()
	if ready != nil {
		a.scheduler.Schedule(ready)
	}
}

// admitLocked must be called with a.mu held. It removes and returns the
// earliest mailbox task the gate admits, or nil if nothing is admissible
// right now (either a task is already in flight, or the gate holds back
// everything queued). Tasks the gate refuses stay queued, in order, in
// front of whatever arrives later: delivery is FIFO among eligible
// tasks, not FIFO of the raw mailbox.
func (a *Actor) admitLocked() *Task {
	if a.scheduling {
		return nil
	}
	task := a.mailbox.takeFirst(a.gate.Admits)
	if task == nil {
		return nil
	}
	a.scheduling = true
	return task
}

// deliver runs task.Selector against the current behavior: invoke the
// method, resolve the continuation on every exit path (normal return or
// panic), apply any pending Become, then retire and let the next
// eligible task in.
func (a *Actor) deliver(task *Task) {
	if task.Selector == resumeSelector {
		// A yielded handler re-acquiring its execution slot: wake it and
		// leave the slot held. The goroutine parked in Yield resumes the
		// handler and its original delivery retires the slot when that
		// handler finally returns.
		task.cont.resolve(resultReturn, nil, nil)
		return
	}

	ctx := &Context{self: a, caller: task.caller}

	value, err := a.invoke(ctx, task)

	if err != nil {
		task.cont.resolve(resultException, nil, err)
	} else {
		task.cont.resolve(resultReturn, value, nil)
	}

	a.mu.Lock()
	bound := a.pending
	if bound != nil {
		a.behavior = bound
		a.pending = nil
	}
	a.mu.Unlock()

	// Bound runs before the next admission decision, while this worker
	// still holds the execution slot: a Bound that calls Accept must be
	// able to open the gate for a task already queued.
	if bound != nil {
		if b, ok := bound.(Bound); ok {
			b.Bound(ctx)
		}
	}

	a.mu.Lock()
	a.scheduling = false
	next := a.admitLocked()
	a.mu.Unlock()

	if next != nil {
		a.scheduler.Schedule(next)
	}
}

// invoke calls the behavior's Receive, recovering a panic into an error
// so a misbehaving handler resolves the caller's continuation instead
// of crashing the worker.
func (a *Actor) invoke(ctx *Context, task *Task) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bollywood: panic handling %q on %s: %v\n%s",
				task.Selector, a.name, r, debug.Stack())
		}
	}()

	a.mu.Lock()
	behavior := a.behavior
	a.mu.Unlock()

	switch task.Selector {
	case boundSelector:
		if b, ok := behavior.(Bound); ok {
			b.Bound(ctx)
		}
		return nil, nil
	case exceptionSelector:
		// The redirect target of a fire-and-forget call whose handler
		// errored, not an ordinary selector a behavior switches on in
		// Receive; route it to ExceptionHandler if the behavior
		// implements it, and drop it otherwise.
		if h, ok := behavior.(ExceptionHandler); ok {
			h.Exception(ctx, task.Args.(error))
		}
		return nil, nil
	}

	return behavior.Receive(ctx, task.Selector, task.Args)
}

// become defers the behavior swap until the current handler returns.
func (a *Actor) become(b Behavior) {
	a.mu.Lock()
	a.pending = b
	a.mu.Unlock()
}

// refuse and accept delegate to the gate.
func (a *Actor) refuse(method string) { a.gate.Refuse(method) }
func (a *Actor) accept(method string) { a.gate.Accept(method) }

// deliverDeadlock gives the actor's current behavior a single chance to
// break a detected cycle, ignoring behaviors that do not implement
// DeadlockHandler.
func (a *Actor) deliverDeadlock(d *Deadlock) {
	a.mu.Lock()
	behavior := a.behavior
	a.mu.Unlock()

	if h, ok := behavior.(DeadlockHandler); ok {
		ctx := &Context{self: a}
		func() {
			defer func() { recover() }()
			h.HandleDeadlock(ctx, d)
		}()
	}
}
