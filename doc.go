// Package bollywood is a single-process actor runtime: a bounded
// worker pool dispatches gated, single-threaded actors, with
// synchronous RPC built on a continuation/future rendezvous and a
// deadlock detector that watches for a system of actors all waiting on
// each other with no worker left to make progress.
//
// An actor is created with Spawn, binds a Behavior, and thereafter
// processes exactly one message at a time from its Mailbox, gated by
// its Gate. A caller invokes an actor either synchronously (Name.Call,
// Context.Call) or fire-and-forget (Name.Tell, Release). Quiesce drains
// the system and re-raises anything the runtime aggregated along the
// way: an unresolved deadlock, or a panic that escaped delivery.
package bollywood
