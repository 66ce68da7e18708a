package sonicboom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
)

func TestSonicBoomDefaultsToBothArcs(t *testing.T) {
	a, err := BuildSonicBoomAttack(2, combat.MoveProfile{Thickness: 3, Duration: 3 * time.Second, Damage: 4})
	require.NoError(t, err)
	assert.Equal(t, emitter.Both, a.Side())
	assert.Equal(t, 2, a.Owner())
	assert.Equal(t, "sonic_boom", a.Name())

	a, err = BuildSonicBoomAttack(1, combat.MoveProfile{Thickness: 2, Duration: 3 * time.Second, Side: "right"})
	require.NoError(t, err)
	assert.Equal(t, emitter.Right, a.Side())
}

func TestSonicBoomTooThin(t *testing.T) {
	a, err := BuildSonicBoomAttack(1, combat.MoveProfile{Thickness: 1, Duration: 3 * time.Second, Damage: 4})
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "thickness 1")

	_, err = BuildSonicBoomAttack(1, combat.MoveProfile{Thickness: 3, Duration: 3 * time.Second, Side: "sideways"})
	assert.Error(t, err)
}
