package bollywood

import "sync"

// onlyOverride restricts admission to a single tagged task, plus a small
// allow-list of control selectors (e.g. "continuation") that must always
// get through regardless of tag so the reply machinery itself is never
// starved by its own override.
type onlyOverride struct {
	tag   string
	allow map[string]struct{}
}

// Gate is the per-actor admission policy: a predicate over pending
// mailbox tasks deciding which may run next, leaving the rest queued in
// order. It holds the default-accept refuse-set overlay and an optional
// "only" overlay used to implement synchronous rendezvous for a
// blocking continuation. Gate is mutated only by the worker currently
// executing the owning actor's handler, or by a caller actor
// installing/clearing a temporary tag override around a blocking call.
type Gate struct {
	mu      sync.Mutex
	refused map[string]struct{}
	only    *onlyOverride
}

// NewGate returns a Gate with the default-accept policy and no refusals.
func NewGate() *Gate {
	return &Gate{refused: make(map[string]struct{})}
}

// Refuse adds method to the refuse-set: a task with this selector is
// queued but not eligible to run until Accept is called.
func (g *Gate) Refuse(method string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refused[method] = struct{}{}
}

// Accept removes method from the refuse-set.
func (g *Gate) Accept(method string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.refused, method)
}

// InstallOnly restricts this gate to admit only a task tagged tag, plus
// any selector named in allow. It is cleared by ClearOnly once the
// matching continuation resolves.
func (g *Gate) InstallOnly(tag string, allow ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	allowSet := make(map[string]struct{}, len(allow))
	for _, a := range allow {
		allowSet[a] = struct{}{}
	}
	g.only = &onlyOverride{tag: tag, allow: allowSet}
}

// ClearOnly removes the "only" override if, and only if, it still
// belongs to tag, guarding against a stale clear from an unrelated,
// already superseded override.
func (g *Gate) ClearOnly(tag string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.only != nil && g.only.tag == tag {
		g.only = nil
	}
}

// Admits reports whether t is runnable now. Removing an "only" override
// never deletes queued messages: Admits simply starts returning true
// for them again once the override is gone.
func (g *Gate) Admits(t *Task) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.only != nil {
		if t.Tag == g.only.tag {
			return true
		}
		_, ok := g.only.allow[t.Selector]
		return ok
	}
	_, refused := g.refused[t.Selector]
	return !refused
}
