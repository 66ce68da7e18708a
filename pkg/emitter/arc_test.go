package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhysicalIndexMirrorsPlayerTwo(t *testing.T) {
	for i := 0; i < ArcLength; i++ {
		assert.Equal(t, i, PhysicalIndex(1, i))
		assert.Equal(t, ArcLength-1-i, PhysicalIndex(2, i))
	}
}

func TestArcAt(t *testing.T) {
	a := NewArc(Left)
	assert.Nil(t, a.At(1, -1))
	assert.Nil(t, a.At(2, ArcLength))
	assert.Equal(t, 0, a.At(1, 0).Index())
	assert.Equal(t, ArcLength-1, a.At(2, 0).Index())
	assert.Same(t, a.At(1, 2), a.At(2, ArcLength-3))
}

func TestSideForHand(t *testing.T) {
	assert.Equal(t, Left, SideForHand(1, LeftHand))
	assert.Equal(t, Right, SideForHand(1, RightHand))
	assert.Equal(t, Right, SideForHand(2, LeftHand))
	assert.Equal(t, Left, SideForHand(2, RightHand))
}

func TestRigSnapshotAndReset(t *testing.T) {
	var hits int
	r := NewRig(func(f *FireEmitter, tr Transition) { hits++ })

	r.Arc(Left).At(1, 0).FireOn(1, AttackFlame)
	r.Arc(Right).At(2, 0).FireOn(2, BlockFlame)
	r.Arc(Right).At(2, 0).FireOn(1, AttackFlame)

	s := r.Snapshot()
	assert.True(t, s.Left[0].Flame)
	assert.True(t, s.Left[0].P1Colour)
	assert.True(t, s.Right[ArcLength-1].Flame)
	assert.True(t, s.Right[ArcLength-1].P2Colour)
	assert.False(t, s.Right[ArcLength-1].P1Colour)
	assert.Equal(t, 1, hits)
	assert.True(t, r.AnyLit())

	r.Reset()
	assert.False(t, r.AnyLit())
	for _, st := range r.States(Left) {
		assert.Equal(t, Off, st)
	}
}

func TestRigArcRejectsBoth(t *testing.T) {
	r := NewRig(nil)
	assert.Panics(t, func() { r.Arc(Both) })
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("both")
	assert.NoError(t, err)
	assert.Equal(t, Both, s)
	_, err = ParseSide("up")
	assert.Error(t, err)
	assert.Equal(t, []Side{Left, Right}, Both.Sides())
}
