package bollywood

import (
	"fmt"
	"sync"
	"time"
)

// Scheduler is the global dispatcher: it owns the ready queue, hands
// tasks to the worker pool, tracks running and suspended threads, and
// detects deadlock. A single dispatcher goroutine is started lazily the
// first time work appears and exits once the system drains.
//
// Thread accounting: every goroutine that can hold work owes the
// scheduler a count. Worker deliveries are counted by the dispatcher
// when it pops a task; goroutines from outside the runtime (the host
// program's main goroutine blocking in Name.Call) check themselves in
// through enterExternal/exitExternal. A blocked continuation checks its
// thread out via SuspendNotification and back in on wakeup, so
// runningThreads reaching zero with parked continuations left over
// means nobody can make progress.
type Scheduler struct {
	cfg  RuntimeConfig
	pool *Pool

	onFatal func(error)

	mu             sync.Mutex
	cond           *sync.Cond
	queue          []*Task
	runningThreads int
	suspended      map[continuation]struct{}
	state          dispatcherState
	dispatching    bool
	quiescing      bool
	stopped        bool

	actorsMu sync.Mutex
	actors   []*Actor
}

// NewScheduler returns an idle scheduler backed by a pool sized per cfg.
// onFatal is invoked from the dispatcher goroutine whenever a second
// consecutive deadlock check still finds the criterion met, and from the
// worker goroutine when a panic otherwise escapes delivery -- the
// runtime wires this to its exception aggregator.
func NewScheduler(cfg RuntimeConfig, onFatal func(error)) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		pool:      NewPool(cfg.PoolSize),
		onFatal:   onFatal,
		suspended: make(map[continuation]struct{}),
		state:     stateIdle,
	}
	s.cond = sync.NewCond(&s.mu)
	go s.pollForMissedNotify()
	return s
}

func (s *Scheduler) logf(format string, args ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
	}
}

// pollForMissedNotify is the safety net named in RuntimeConfig's
// DeadlockPollInterval doc comment: every tick, if the dispatcher is
// parked waiting on an empty queue, nudge it so a Broadcast raced by a
// concurrent Schedule/SuspendNotification/WakeupNotification is never
// fatal. It runs until reset.
func (s *Scheduler) pollForMissedNotify() {
	interval := s.cfg.DeadlockPollInterval
	if interval <= 0 {
		return
	}
	for {
		time.Sleep(interval)
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		if s.state == stateWaitState {
			s.cond.Broadcast()
		}
		s.mu.Unlock()
	}
}

func (s *Scheduler) registerActor(a *Actor) {
	s.actorsMu.Lock()
	s.actors = append(s.actors, a)
	s.actorsMu.Unlock()
}

func (s *Scheduler) liveActors() []*Actor {
	s.actorsMu.Lock()
	defer s.actorsMu.Unlock()
	out := make([]*Actor, len(s.actors))
	copy(out, s.actors)
	return out
}

// Schedule appends task to the ready queue and spawns the dispatcher if
// none is running.
func (s *Scheduler) Schedule(task *Task) {
	s.mu.Lock()
	s.queue = append(s.queue, task)
	start := s.wakeOrStartLocked()
	s.mu.Unlock()
	if start {
		go s.run()
	}
}

// SuspendNotification records that cont's owning goroutine has parked
// waiting for a reply: it decrements runningThreads and inserts into the
// suspended map. May be called from any thread.
func (s *Scheduler) SuspendNotification(cont continuation) {
	s.mu.Lock()
	start := s.wakeOrStartLocked()
	s.runningThreads--
	s.suspended[cont] = struct{}{}
	s.cond.Broadcast()
	s.mu.Unlock()
	if start {
		go s.run()
	}
}

// WakeupNotification reverses SuspendNotification. If the dispatcher has
// already exited, this restarts it instead of leaving the woken
// goroutine's accounting stranded.
func (s *Scheduler) WakeupNotification(cont continuation) {
	s.mu.Lock()
	delete(s.suspended, cont)
	s.runningThreads++
	start := s.wakeOrStartLocked()
	s.cond.Broadcast()
	s.mu.Unlock()
	if start {
		go s.run()
	}
}

// enterExternal and exitExternal bracket the time a goroutine from
// outside the runtime spends blocked in a synchronous call. While
// checked in it counts as one running thread, so its
// SuspendNotification nets the count to a truthful zero rather than
// driving it negative.
func (s *Scheduler) enterExternal() {
	s.mu.Lock()
	s.runningThreads++
	s.mu.Unlock()
}

func (s *Scheduler) exitExternal() {
	s.mu.Lock()
	s.runningThreads--
	s.cond.Broadcast()
	s.mu.Unlock()
}

// wakeOrStartLocked must be called with s.mu held. It nudges a waiting
// dispatcher and reports whether a new dispatcher goroutine needs to be
// started because none is currently running.
func (s *Scheduler) wakeOrStartLocked() bool {
	if s.state == stateWaitState {
		s.cond.Broadcast()
	}
	if s.dispatching {
		return false
	}
	s.dispatching = true
	s.state = stateRunning
	return true
}

func (s *Scheduler) setQuiescing(v bool) {
	s.mu.Lock()
	s.quiescing = v
	s.cond.Broadcast()
	s.mu.Unlock()
}

// maybeDeadlockLocked reports deadlock when no thread runs, no task is
// ready, continuations are parked, and the runtime is not draining. A
// handler sleeping in Context.Yield keeps its worker counted as
// running, so a pending yield timer holds the first conjunct false on
// its own. Must be called with s.mu held.
func (s *Scheduler) maybeDeadlockLocked() *Deadlock {
	if s.runningThreads == 0 && len(s.queue) == 0 &&
		len(s.suspended) > 0 && !s.quiescing {
		return &Deadlock{}
	}
	return nil
}

// run is the dispatch loop.
func (s *Scheduler) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && s.runningThreads > 0 {
			s.state = stateWaitState
			s.cond.Wait()
		}
		s.state = stateRunning
		deadlock := s.maybeDeadlockLocked()
		s.mu.Unlock()

		if deadlock != nil {
			s.logf("bollywood: deadlock detected, notifying live actors")
			s.deliverDeadlockToAll(deadlock)

			s.mu.Lock()
			again := s.maybeDeadlockLocked()
			s.mu.Unlock()

			// The live actors had their one chance to break the cycle;
			// if the criterion still holds, propagate and shut down.
			if again != nil {
				s.logf("bollywood: deadlock unresolved, aborting")
				chained := &Deadlock{Next: deadlock}
				if s.onFatal != nil {
					s.onFatal(chained)
				}
				s.finish()
				s.abortSuspended(chained)
				return
			}
		}

		s.mu.Lock()
		if len(s.queue) == 0 && s.runningThreads == 0 {
			s.finishLocked()
			s.mu.Unlock()
			return
		}

		var task *Task
		if len(s.queue) > 0 {
			task = s.queue[0]
			s.queue = s.queue[1:]
			s.runningThreads++
		}
		s.mu.Unlock()

		if task != nil {
			s.pool.Submit(func() { s.deliverThread(task) })
		}
	}
}

func (s *Scheduler) finish() {
	s.mu.Lock()
	s.finishLocked()
	s.mu.Unlock()
}

func (s *Scheduler) finishLocked() {
	if len(s.queue) != 0 {
		panic(&ErrInvariantViolation{What: "dispatcher shutting down with a non-empty ready queue"})
	}
	s.state = stateIdle
	s.dispatching = false
	s.cond.Broadcast()
}

func (s *Scheduler) deliverDeadlockToAll(d *Deadlock) {
	for _, a := range s.liveActors() {
		a.deliverDeadlock(d)
	}
}

// abortSuspended resolves every parked continuation with d so no caller
// -- worker or main goroutine -- is left waiting forever on a runtime
// that has given up. Runs after finish: anything the woken handlers
// schedule on their way out restarts a fresh dispatcher.
func (s *Scheduler) abortSuspended(d *Deadlock) {
	s.mu.Lock()
	conts := make([]continuation, 0, len(s.suspended))
	for c := range s.suspended {
		conts = append(conts, c)
	}
	s.mu.Unlock()

	for _, c := range conts {
		c.resolve(resultException, nil, d)
	}
}

// deliverThread wraps one task delivery with runningThreads retirement.
func (s *Scheduler) deliverThread(task *Task) {
	defer func() {
		if r := recover(); r != nil && s.onFatal != nil {
			s.onFatal(fmt.Errorf("bollywood: scheduler worker panic: %v", r))
		}
		s.mu.Lock()
		s.runningThreads--
		s.cond.Broadcast()
		s.mu.Unlock()
	}()
	task.Target.deliver(task)
}

// awaitDrain blocks until the ready queue is empty, no thread is
// running, and no dispatcher is active. Used by Runtime.Quiesce.
func (s *Scheduler) awaitDrain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.dispatching || len(s.queue) > 0 || s.runningThreads > 0 {
		s.cond.Wait()
	}
}

// reset tears the scheduler down, dropping the ready queue, the
// suspended map, and the live-actor set, stopping the missed-notify
// poller, and closing the pool. The teardown is final: the closed pool
// accepts no further work, so a reset scheduler delivers no more tasks.
func (s *Scheduler) reset() {
	s.logf("bollywood: scheduler reset")
	s.mu.Lock()
	s.queue = nil
	s.suspended = make(map[continuation]struct{})
	s.runningThreads = 0
	s.state = stateIdle
	s.dispatching = false
	s.quiescing = false
	s.stopped = true
	s.cond.Broadcast()
	s.mu.Unlock()

	s.actorsMu.Lock()
	s.actors = nil
	s.actorsMu.Unlock()

	s.pool.Reset(false)
}
