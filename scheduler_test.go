package bollywood

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mutualCaller answers any message by synchronously calling its peer,
// which is how two actors end up waiting on each other forever.
type mutualCaller struct {
	peer     *Name
	selector string
}

func (m *mutualCaller) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	return ctx.Call(*m.peer, m.selector, nil)
}

func TestScheduler_DetectsMutualDeadlock(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	a := &mutualCaller{selector: "ping"}
	b := &mutualCaller{selector: "pong"}
	aName := rt.Spawn(a, "a")
	bName := rt.Spawn(b, "b")
	a.peer = &bName
	b.peer = &aName

	aName.Tell("kick", nil)
	time.Sleep(200 * time.Millisecond)

	err := rt.Quiesce()
	require.Error(t, err)
	var dl *Deadlock
	assert.True(t, errors.As(err, &dl), "expected a *Deadlock in %v", err)
}

func TestScheduler_NoFalseDeadlockOnOrdinaryCalls(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	name := rt.Spawn(echoBehavior{}, "echo")
	for i := 0; i < 50; i++ {
		_, err := name.Call("identity", i)
		require.NoError(t, err)
	}

	err := rt.Quiesce()
	assert.NoError(t, err)
}

// deadlockAware blocks on its peer like mutualCaller, but also records
// the synthetic deadlock message the scheduler delivers to every live
// actor once the cycle is detected.
type deadlockAware struct {
	peer *Name
	hit  chan struct{}
}

func (d *deadlockAware) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	return ctx.Call(*d.peer, "echo", nil)
}

func (d *deadlockAware) HandleDeadlock(ctx *Context, dl *Deadlock) {
	select {
	case d.hit <- struct{}{}:
	default:
	}
}

func TestScheduler_DeliversDeadlockMessageToAllLiveActors(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	a := &deadlockAware{hit: make(chan struct{}, 1)}
	b := &deadlockAware{hit: make(chan struct{}, 1)}
	aName := rt.Spawn(a, "a")
	bName := rt.Spawn(b, "b")
	a.peer = &bName
	b.peer = &aName

	aName.Tell("kick", nil)

	for _, ch := range []chan struct{}{a.hit, b.hit} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("deadlock message was not delivered to every live actor")
		}
	}

	err := rt.Quiesce()
	require.Error(t, err)
}

// fifoRecorder appends selector to order every time it is invoked, to
// verify per-actor FIFO ordering among admitted tasks.
type fifoRecorder struct {
	order *[]string
}

func (f *fifoRecorder) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	*f.order = append(*f.order, selector)
	return nil, nil
}

func TestScheduler_PreservesFIFOOrderAmongAdmittedTasks(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	var order []string
	name := rt.Spawn(&fifoRecorder{order: &order}, "fifo")

	for i := 0; i < 20; i++ {
		name.Tell(fmt.Sprintf("tick-%d", i), i)
	}
	require.NoError(t, rt.Quiesce())

	require.Len(t, order, 20)
	for i, sel := range order {
		assert.Equal(t, fmt.Sprintf("tick-%d", i), sel)
	}
}
