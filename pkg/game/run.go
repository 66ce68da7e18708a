package game

import (
	"context"
	"errors"
	"time"

	"github.com/srliao/streetfire/pkg/emitter"
)

//ErrTimeLimit is returned by Simulate when the match did not finish in time
var ErrTimeLimit = errors.New("match did not finish within the time limit")

//Status is what the outside world sees after a tick
type Status struct {
	Tick  int
	State State
	Round int
	//RoundClock is the time played in the current round
	RoundClock time.Duration
	HP         [2]int
	Wins       [2]int
	Rig        emitter.Snapshot
}

//Status samples the match between ticks
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Tick:       m.F,
		State:      m.state,
		Round:      m.round,
		RoundClock: m.roundClock,
		HP:         [2]int{m.Sched.Player(1).HP, m.Sched.Player(2).HP},
		Wins:       [2]int{m.Sched.Player(1).RoundWins, m.Sched.Player(2).RoundWins},
		Rig:        m.Rig.Snapshot(),
	}
}

//Run ticks the match at the profile's rate until ctx is done, passing the
//status after every tick to onTick. The measured wall time between ticks is
//used as dt so a late tick simply advances further; nothing is caught up.
//An aborted match is logged and the loop keeps running from Idle.
func (m *Match) Run(ctx context.Context, onTick func(Status)) error {
	period := m.Profile.Period()
	t := time.NewTicker(period)
	defer t.Stop()

	m.Log.Infof("[%v] running at %v Hz", m.Frame(), m.Profile.TickHz)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			m.Reset()
			return ctx.Err()
		case now := <-t.C:
			dt := now.Sub(last)
			last = now
			if dt > 2*period {
				m.overrun.Add(ctx, 1)
				m.Log.Debugf("[%v] tick overrun: %v", m.Frame(), dt)
			}
			if err := m.Tick(dt); err != nil {
				m.Log.Errorw("tick failed", "frame", m.Frame(), "err", err)
			}
			if onTick != nil {
				onTick(m.Status())
			}
		}
	}
}

//Simulate plays a whole match with a fixed dt and both players ready at once.
//It is how scripted and randomized matches are run without a clock.
func (m *Match) Simulate(dt, limit time.Duration) (MatchResult, error) {
	if err := m.Start(); err != nil {
		return MatchResult{}, err
	}
	for _, p := range []int{1, 2} {
		if err := m.MarkReady(p); err != nil {
			return m.Result(), err
		}
	}
	for elapsed := time.Duration(0); elapsed < limit; elapsed += dt {
		if err := m.Tick(dt); err != nil {
			return m.Result(), err
		}
		if m.State() == MatchOver {
			return m.Result(), nil
		}
	}
	return m.Result(), ErrTimeLimit
}
