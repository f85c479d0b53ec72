package bollywood

// Task is one pending message: a target actor, a method descriptor
// (Selector) and its Args, plus the continuation that will carry the
// reply. Once enqueued a Task is never mutated; it carries a stable Tag
// used by the gate's "only" overlay and the Name of the actor that sent
// it, if any.
type Task struct {
	Target   *Actor
	Selector string
	Args     interface{}
	Tag      string

	caller Name
	cont   continuation
}

// Reserved selectors, never dispatched to a Behavior's Receive.
// boundSelector delivers the initial behavior's Bound callback as the
// actor's first message, so it runs on a worker ahead of anything user
// code may already have enqueued. resumeSelector hands the execution
// slot back to a goroutine parked in Context.Yield. exceptionSelector
// carries an error redirected from a fire-and-forget call back to the
// actor that raised it; it routes to ExceptionHandler, so "exception"
// is not available as a message name in a behavior's own vocabulary.
const (
	boundSelector     = "__bound__"
	resumeSelector    = "__resume__"
	exceptionSelector = "exception"
)
