package emitter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepTable(t *testing.T) {
	cases := []struct {
		from    FireState
		event   Event
		next    FireState
		blocked bool
		loser   int
	}{
		{Off, TurnOnP1Attack, P1Attack, false, 0},
		{Off, TurnOnP1Block, P1Block, false, 0},
		{Off, TurnOnP2Attack, P2Attack, false, 0},
		{Off, TurnOffP1Attack, Off, false, 0},
		{P1Attack, TurnOnP1Block, P1AttackAndBlock, false, 0},
		{P1Attack, TurnOnP2Attack, P1AndP2Attack, false, 0},
		{P1Attack, TurnOnP2Block, P2Block, true, 1},
		{P1Attack, TurnOffP1Attack, Off, false, 0},
		{P1Attack, TurnOnP1Attack, P1Attack, false, 0},
		{P1Block, TurnOnP1Attack, P1AttackAndBlock, false, 0},
		{P1Block, TurnOnP2Attack, P1Block, true, 2},
		{P1Block, TurnOffP1Block, Off, false, 0},
		{P1AndP2Attack, TurnOnP1Block, P1AttackAndBlock, true, 2},
		{P1AndP2Attack, TurnOnP2Block, P2AttackAndBlock, true, 1},
		{P1AndP2Attack, TurnOffP1Attack, P2Attack, false, 0},
		{P1AndP2Attack, TurnOffP2Attack, P1Attack, false, 0},
		{P1AttackAndBlock, TurnOffP1Attack, P1Block, false, 0},
		{P1AttackAndBlock, TurnOffP1Block, P1Attack, false, 0},
		{P1AttackAndBlock, TurnOnP2Attack, P1AttackAndBlock, true, 2},
		{P2Attack, TurnOnP1Block, P1Block, true, 2},
		{P2Block, TurnOnP1Attack, P2Block, true, 1},
		{P2AttackAndBlock, TurnOffP2Block, P2Attack, false, 0},
		{P2AttackAndBlock, TurnOffP2Attack, P2Block, false, 0},
	}
	for _, c := range cases {
		tr, err := Step(c.from, c.event)
		require.NoError(t, err, "%v + %v", c.from, c.event)
		assert.Equal(t, c.next, tr.Next, "%v + %v", c.from, c.event)
		assert.Equal(t, c.blocked, tr.Blocked, "%v + %v", c.from, c.event)
		assert.Equal(t, c.loser, tr.Extinguished, "%v + %v", c.from, c.event)
	}
}

func TestStepDoubleBlockIsIllegal(t *testing.T) {
	for _, c := range []struct {
		from  FireState
		event Event
	}{
		{P1Block, TurnOnP2Block},
		{P2Block, TurnOnP1Block},
		{P1AttackAndBlock, TurnOnP2Block},
		{P2AttackAndBlock, TurnOnP1Block},
	} {
		_, err := Step(c.from, c.event)
		assert.ErrorIs(t, err, ErrDoubleBlock)
	}
}

func TestOutputMatchesState(t *testing.T) {
	for s := Off; s < Blocked; s++ {
		o := s.Output()
		assert.Equal(t, s != Off, o.Flame, s.String())
		assert.Equal(t, s.HasAttack(1) || s.HasBlock(1), o.P1Colour, s.String())
		assert.Equal(t, s.HasAttack(2) || s.HasBlock(2), o.P2Colour, s.String())
	}
}

func TestBlockPrecedence(t *testing.T) {
	f := New(Left, 3)
	require.True(t, f.FireOn(1, AttackFlame))
	require.Equal(t, P1Attack, f.State())

	assert.True(t, f.FireOn(2, BlockFlame))
	assert.False(t, f.HasAttackFlameOwnedByPlayer(1))
	assert.Equal(t, P2Block, f.State())
	assert.Equal(t, 1, f.BlockCount())

	//an attack arriving against the block never lights for the attacker
	assert.False(t, f.FireOn(1, AttackFlame))
	assert.Equal(t, P2Block, f.State())
	assert.True(t, f.P2ColourOn())
	assert.False(t, f.P1ColourOn())
}

func TestFireOffIsIdempotent(t *testing.T) {
	f := New(Right, 0)
	f.FireOn(2, AttackFlame)
	assert.NotPanics(t, func() {
		f.FireOff(2, AttackFlame)
		f.FireOff(2, AttackFlame)
	})
	assert.Equal(t, Off, f.State())
	assert.False(t, f.Lit())

	assert.NotPanics(t, func() { f.FireOff(1, BlockFlame) })
	assert.Equal(t, Off, f.State())
}

func TestCrossingAttacks(t *testing.T) {
	f := New(Left, 4)
	assert.True(t, f.FireOn(1, AttackFlame))
	assert.True(t, f.FireOn(2, AttackFlame))
	assert.Equal(t, P1AndP2Attack, f.State())
	assert.True(t, f.P1ColourOn())
	assert.True(t, f.P2ColourOn())

	f.FireOff(2, AttackFlame)
	assert.Equal(t, P1Attack, f.State())
	assert.True(t, f.HasAttackFlameOwnedByPlayer(1))
}

func TestDoubleBlockPanics(t *testing.T) {
	f := New(Right, 5)
	f.FireOn(1, BlockFlame)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		ie, ok := r.(*InvariantError)
		require.True(t, ok, "expected *InvariantError, got %T", r)
		assert.True(t, errors.Is(ie, ErrDoubleBlock))
		assert.Equal(t, 5, ie.Index)
	}()
	f.FireOn(2, BlockFlame)
}

func TestStrobeKeepsOwnership(t *testing.T) {
	f := New(Left, 1)
	f.FireOn(1, AttackFlame)
	f.Strobe()
	assert.True(t, f.Lit())
	assert.False(t, f.FlameVisible())
	assert.True(t, f.HasAttackFlameOwnedByPlayer(1))

	f.FireOn(1, AttackFlame)
	assert.True(t, f.FlameVisible())
}

func TestEventFor(t *testing.T) {
	assert.Equal(t, TurnOnP1Attack, EventFor(1, AttackFlame, true))
	assert.Equal(t, TurnOnP2Block, EventFor(2, BlockFlame, true))
	assert.Equal(t, TurnOffP2Attack, EventFor(2, AttackFlame, false))
	assert.Equal(t, TurnOffP1Block, EventFor(1, BlockFlame, false))
}
