package hadouken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
)

func TestBuildHadoukenAttack(t *testing.T) {
	a, err := BuildHadoukenAttack(2, combat.MoveProfile{Thickness: 2, Duration: 4 * time.Second, Damage: 6})
	require.NoError(t, err)
	assert.Equal(t, emitter.Both, a.Side())
	assert.Equal(t, 2, a.Owner())

	a, err = BuildHadoukenAttack(1, combat.MoveProfile{Thickness: 2, Duration: 4 * time.Second, Side: "left"})
	require.NoError(t, err)
	assert.Equal(t, emitter.Left, a.Side())

	_, err = BuildHadoukenAttack(1, combat.MoveProfile{Thickness: 2, Duration: 4 * time.Second, Side: "up"})
	assert.Error(t, err)
}
