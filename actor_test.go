package bollywood

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoBehavior returns args unchanged, the simplest possible Receive.
type echoBehavior struct{}

func (echoBehavior) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	return args, nil
}

// panicBehavior always panics, to exercise invoke's recover path.
type panicBehavior struct{}

func (panicBehavior) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	panic("boom")
}

// doorOpen/doorLocked exercise become plus the gate: locking refuses
// "enter" until "unlock" accepts it again, and the new behavior is
// bound before any queued "enter" is admitted.
type doorOpen struct{ entered *[]string }
type doorLocked struct{ entered *[]string }

func (d *doorOpen) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	switch selector {
	case "lock":
		ctx.Become(&doorLocked{entered: d.entered})
		return nil, nil
	case "enter":
		*d.entered = append(*d.entered, args.(string))
		return nil, nil
	}
	return nil, fmt.Errorf("doorOpen: unknown selector %q", selector)
}

func (d *doorLocked) Bound(ctx *Context) {
	ctx.Refuse("enter")
}

func (d *doorLocked) Receive(ctx *Context, selector string, args interface{}) (interface{}, error) {
	switch selector {
	case "unlock":
		ctx.Accept("enter")
		ctx.Become(&doorOpen{entered: d.entered})
		return nil, nil
	case "enter":
		*d.entered = append(*d.entered, args.(string))
		return nil, nil
	}
	return nil, fmt.Errorf("doorLocked: unknown selector %q", selector)
}

func TestActor_CallRoundTripsArgsAndValue(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	name := rt.Spawn(echoBehavior{}, "echo")
	value, err := name.Call("anything", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestActor_PanicResolvesCallerWithError(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	name := rt.Spawn(panicBehavior{}, "panicky")
	_, err := name.Call("anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestActor_BecomeDefersUntilReceiveReturnsAndQueuedEnterIsRefused(t *testing.T) {
	rt := NewRuntime(DefaultRuntimeConfig())
	defer rt.Reset()

	var entered []string
	name := rt.Spawn(&doorOpen{entered: &entered}, "door")

	_, err := name.Call("lock", nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond) // let Bound() apply the refusal

	// Sent while locked: queued behind the refused "enter" gate rather
	// than rejected outright. Nothing is dropped, admission is merely
	// deferred.
	name.Tell("enter", "latecomer")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, entered, "enter should still be refused while locked")

	_, err = name.Call("unlock", nil)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"latecomer"}, entered, "queued enter should run once unlocked")
}
