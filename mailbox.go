package bollywood

// Mailbox is the per-actor ordered FIFO of pending tasks: a plain
// slice-backed queue guarded by the owning Actor's mutex. It is not a
// channel because admission needs to select the first task a predicate
// admits while leaving everything it skips queued in order -- the Gate
// may hold back a task sitting in front of runnable ones.
type Mailbox struct {
	tasks []*Task
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// push appends t to the tail of the mailbox.
func (m *Mailbox) push(t *Task) {
	m.tasks = append(m.tasks, t)
}

// takeFirst removes and returns the earliest task admitted by pred, or
// nil if pred admits none. Tasks it skips stay queued in their original
// order; they become candidates again on the next call.
func (m *Mailbox) takeFirst(pred func(*Task) bool) *Task {
	for i, t := range m.tasks {
		if pred(t) {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return t
		}
	}
	return nil
}

// Len reports the number of pending tasks.
func (m *Mailbox) Len() int {
	return len(m.tasks)
}
