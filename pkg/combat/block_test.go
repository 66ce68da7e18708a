package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srliao/streetfire/pkg/emitter"
)

func TestNewBlockValidation(t *testing.T) {
	_, err := NewBlock(BlockConfig{Name: "wide", Owner: 1, Side: emitter.Left, Thickness: MaxBlockThickness + 1, TimeLimit: time.Second})
	assert.Error(t, err)
	_, err = NewBlock(BlockConfig{Name: "none", Owner: 1, Side: emitter.Left, Thickness: 0, TimeLimit: time.Second})
	assert.Error(t, err)
	_, err = NewBlock(BlockConfig{Name: "forever", Owner: 1, Side: emitter.Left, Thickness: 1})
	assert.Error(t, err)
	_, err = NewBlock(BlockConfig{Name: "nobody", Owner: 0, Side: emitter.Left, Thickness: 1, TimeLimit: time.Second})
	assert.Error(t, err)
}

func TestBlockCoversNearestEmitters(t *testing.T) {
	r := emitter.NewRig(nil)
	b, err := NewBlock(BlockConfig{Name: "guard", Owner: 2, Side: emitter.Both, Thickness: 3, TimeLimit: time.Second})
	require.NoError(t, err)
	b.Initialize(r)
	assert.False(t, r.AnyLit(), "not lit before the first tick")

	b.Tick(10 * time.Millisecond)
	assert.True(t, b.Lit())
	for _, s := range []emitter.Side{emitter.Left, emitter.Right} {
		assert.Equal(t, []emitter.FireState{
			emitter.Off, emitter.Off, emitter.Off, emitter.Off, emitter.Off,
			emitter.P2Block, emitter.P2Block, emitter.P2Block,
		}, r.States(s))
	}
}

func TestBlockExpires(t *testing.T) {
	r := emitter.NewRig(nil)
	b, err := NewBlock(BlockConfig{Name: "guard", Owner: 1, Side: emitter.Left, Thickness: 2, TimeLimit: time.Second})
	require.NoError(t, err)
	b.Initialize(r)

	b.Tick(600 * time.Millisecond)
	assert.False(t, b.IsFinished())
	assert.True(t, r.Arc(emitter.Left).Physical(1).HasBlockFlameOwnedByPlayer(1))

	b.Tick(400 * time.Millisecond)
	assert.True(t, b.IsFinished())
	assert.False(t, r.AnyLit())
	assert.Panics(t, func() { b.Tick(time.Millisecond) })
}

func TestBlockReleaseDoesNotClearNewerBlock(t *testing.T) {
	r := emitter.NewRig(nil)
	cfg := BlockConfig{Name: "guard", Owner: 1, Side: emitter.Right, Thickness: 1, TimeLimit: time.Second}
	old, err := NewBlock(cfg)
	require.NoError(t, err)
	old.Initialize(r)
	old.Tick(time.Millisecond)
	old.Kill()

	fresh, err := NewBlock(cfg)
	require.NoError(t, err)
	fresh.Initialize(r)
	fresh.Tick(time.Millisecond)

	old.Release()
	old.Kill()
	assert.Equal(t, emitter.P1Block, r.Arc(emitter.Right).Physical(0).State())
}

func TestBlockKilledBeforeFirstTick(t *testing.T) {
	r := emitter.NewRig(nil)
	b, err := NewBlock(BlockConfig{Name: "guard", Owner: 1, Side: emitter.Left, Thickness: 1, TimeLimit: time.Second})
	require.NoError(t, err)
	b.Initialize(r)
	b.Kill()
	assert.True(t, b.IsFinished())
	assert.False(t, b.Lit())
	assert.False(t, r.AnyLit())
}

func TestOwnAttackPassesThroughOwnBlock(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.Spawn(guard(t, 1, emitter.Left)))
	a := jab(t, 1, emitter.Left)
	require.NoError(t, s.Spawn(a))

	s.Tick(quarter, nil)
	assert.Equal(t, emitter.P1AttackAndBlock, s.Rig.Arc(emitter.Left).Physical(0).State())
	s.Tick(quarter, nil)
	assert.Equal(t, emitter.P1Block, s.Rig.Arc(emitter.Left).Physical(0).State())
	assert.Equal(t, emitter.P1Attack, s.Rig.Arc(emitter.Left).Physical(1).State())
}
