package bollywood

import (
	"log"
	"time"
)

// RuntimeConfig holds the tunables for a Runtime. It is a plain struct
// passed explicitly to NewRuntime; there is no env or flag binding
// layer.
type RuntimeConfig struct {
	// PoolSize bounds the number of worker goroutines the thread pool
	// will create. Zero means unbounded (a goroutine per in-flight
	// delivery), matching a thread pool whose bound was never reached
	// in practice.
	PoolSize int

	// MailboxCapacity is advisory only: a hard cap would drop messages
	// queued behind a refused method, which must be able to pile up for
	// as long as the gate holds them back. Nothing in the runtime reads
	// this field; no cap is enforced and no warning is raised.
	MailboxCapacity int

	// DeadlockPollInterval bounds how long the dispatcher will wait on
	// its condition variable before re-checking the deadlock criterion
	// on its own, as a safety net against a missed notify.
	DeadlockPollInterval time.Duration

	// Logger receives runtime lifecycle events (deadlock detection,
	// scheduler reset). Nil keeps the runtime silent, which is the
	// default.
	Logger *log.Logger
}

// DefaultRuntimeConfig returns the configuration a Runtime uses unless
// the caller supplies its own.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		PoolSize:             256,
		MailboxCapacity:      4096,
		DeadlockPollInterval: 50 * time.Millisecond,
	}
}
