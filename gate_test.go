package bollywood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_DefaultAcceptsEverything(t *testing.T) {
	g := NewGate()
	assert.True(t, g.Admits(&Task{Selector: "anything"}))
}

func TestGate_RefuseThenAccept(t *testing.T) {
	g := NewGate()
	g.Refuse("bid")
	assert.False(t, g.Admits(&Task{Selector: "bid"}))
	assert.True(t, g.Admits(&Task{Selector: "close"}))

	g.Accept("bid")
	assert.True(t, g.Admits(&Task{Selector: "bid"}))
}

func TestGate_OnlyOverrideAdmitsTaggedAndAllowed(t *testing.T) {
	g := NewGate()
	g.InstallOnly("tag-1", "continuation")

	assert.True(t, g.Admits(&Task{Selector: "bid", Tag: "tag-1"}))
	assert.True(t, g.Admits(&Task{Selector: "continuation", Tag: "other-tag"}))
	assert.False(t, g.Admits(&Task{Selector: "bid", Tag: "other-tag"}))
}

func TestGate_ClearOnlyIgnoresStaleTag(t *testing.T) {
	g := NewGate()
	g.InstallOnly("tag-1", "continuation")
	g.ClearOnly("stale-tag")
	assert.False(t, g.Admits(&Task{Selector: "bid", Tag: "other"}))

	g.ClearOnly("tag-1")
	assert.True(t, g.Admits(&Task{Selector: "bid", Tag: "other"}))
}

func TestGate_RefuseSurvivesOnlyOverrideClear(t *testing.T) {
	g := NewGate()
	g.Refuse("bid")
	g.InstallOnly("tag-1", "continuation")
	g.ClearOnly("tag-1")

	// Removing an "only" override never drops queued messages, but it
	// also doesn't resurrect a selector that was separately refused.
	assert.False(t, g.Admits(&Task{Selector: "bid"}))
}
