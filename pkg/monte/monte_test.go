package monte

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	_ "github.com/srliao/streetfire/internal/move/block"
	_ "github.com/srliao/streetfire/internal/move/hadouken"
	_ "github.com/srliao/streetfire/internal/move/hook"
	_ "github.com/srliao/streetfire/internal/move/jab"
	_ "github.com/srliao/streetfire/internal/move/sonicboom"
	"github.com/srliao/streetfire/pkg/game"
	"github.com/srliao/streetfire/pkg/gesture"
)

func quickProfile() game.Profile {
	p := game.DefaultProfile()
	p.TickHz = 20
	p.Match.RoundTime = 20 * time.Second
	p.Match.RoundsToWin = 1
	p.Match.SettleTieTime = 5 * time.Second
	return p
}

func quickConfig() Config {
	cfg := DefaultConfig()
	cfg.Iterations = 24
	cfg.Workers = 4
	cfg.MeanGap = 300 * time.Millisecond
	cfg.Limit = 2 * time.Minute
	cfg.Seed = 42
	return cfg
}

func TestRunIsRepeatable(t *testing.T) {
	s, err := New(quickProfile(), quickConfig(), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	a := s.Run()
	b := s.Run()

	assert.Equal(t, 24, a.N)
	assert.Zero(t, a.Aborted)
	assert.Equal(t, a.N, a.Wins[0]+a.Wins[1]+a.Unfinished+a.Aborted)
	assert.Equal(t, a.Wins, b.Wins)
	assert.Equal(t, a.Hist, b.Hist)
	assert.Equal(t, a.Min, b.Min)
	assert.InDelta(t, a.Mean, b.Mean, 1e-9)

	if played := a.Wins[0] + a.Wins[1]; played > 0 {
		var total float64
		for _, v := range a.Hist {
			total += v
		}
		assert.Equal(t, float64(played), total)
		assert.LessOrEqual(t, a.Min, a.Mean)
		assert.LessOrEqual(t, a.Mean, a.Max)
		assert.Greater(t, a.Hits[0]+a.Hits[1], 0.0)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := quickConfig()
	cfg.Workers = 0
	_, err := New(quickProfile(), cfg, nil)
	assert.Error(t, err)

	cfg = quickConfig()
	cfg.MeanGap = 0
	_, err = New(quickProfile(), cfg, nil)
	assert.Error(t, err)

	p := quickProfile()
	p.TickHz = 0
	_, err = New(p, quickConfig(), nil)
	assert.Error(t, err)
}

func TestRandScript(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	items := RandScript(r, 30*time.Second, 500*time.Millisecond)
	require.NotEmpty(t, items)

	var blocks, releases [2]int
	for _, it := range items {
		require.NoError(t, it.Move.Validate())
		switch {
		case it.Move.Kind == gesture.BlockRelease:
			releases[it.Move.Player-1]++
		case it.Move.Kind.IsBlock():
			blocks[it.Move.Player-1]++
			assert.Less(t, it.At, 30*time.Second)
		default:
			assert.Less(t, it.At, 30*time.Second)
		}
	}
	assert.Equal(t, blocks, releases)
	assert.Greater(t, blocks[0]+blocks[1], 0)
}

func TestRandKindNeverReleases(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	seen := map[gesture.Kind]bool{}
	for i := 0; i < 2000; i++ {
		k := RandKind(r)
		require.NotEqual(t, gesture.BlockRelease, k)
		seen[k] = true
	}
	assert.Len(t, seen, int(gesture.BlockRelease))
}
