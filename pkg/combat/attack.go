package combat

import (
	"fmt"
	"time"

	"github.com/srliao/streetfire/pkg/emitter"
)

//AttackConfig holds the parameters of one attack
type AttackConfig struct {
	Name      string
	Owner     int
	Side      emitter.Side
	Thickness int
	Duration  time.Duration
	Damage    int
}

//Attack sends a window of Thickness flames from the owner's end of an arc to
//the opponent's end. Every window slot that is still alive when it reaches
//the last emitter is a hit.
type Attack struct {
	cfg        AttackConfig
	perEmitter time.Duration

	rig      *emitter.Rig
	lanes    []*lane
	elapsed  time.Duration
	finished bool
	killed   bool
}

//lane is the window state of an attack on one arc
type lane struct {
	arc    *emitter.Arc
	index  int //logical position of slot 0; starts at -thickness
	active []bool
	lit    []bool
	done   []bool
	acc    time.Duration
}

//NewAttack validates the config; it does not touch any emitter until Initialize
func NewAttack(cfg AttackConfig) (*Attack, error) {
	if !validOwner(cfg.Owner) {
		return nil, fmt.Errorf("attack %v: invalid owner %d", cfg.Name, cfg.Owner)
	}
	if !validSide(cfg.Side) {
		return nil, fmt.Errorf("attack %v: invalid side %v", cfg.Name, cfg.Side)
	}
	if cfg.Thickness < 1 || cfg.Thickness > emitter.ArcLength {
		return nil, fmt.Errorf("attack %v: thickness %d outside [1,%d]", cfg.Name, cfg.Thickness, emitter.ArcLength)
	}
	if cfg.Damage < 0 {
		return nil, fmt.Errorf("attack %v: negative damage %d", cfg.Name, cfg.Damage)
	}
	steps := time.Duration(emitter.ArcLength + cfg.Thickness - 1)
	if cfg.Duration < steps {
		return nil, fmt.Errorf("attack %v: duration %v too short for %d emitter steps", cfg.Name, cfg.Duration, steps)
	}
	return &Attack{
		cfg:        cfg,
		perEmitter: cfg.Duration / steps,
	}, nil
}

func (a *Attack) isAction() {}

func (a *Attack) Owner() int                    { return a.cfg.Owner }
func (a *Attack) Side() emitter.Side            { return a.cfg.Side }
func (a *Attack) Name() string                  { return a.cfg.Name }
func (a *Attack) Thickness() int                { return a.cfg.Thickness }
func (a *Attack) Damage() int                   { return a.cfg.Damage }
func (a *Attack) TimePerEmitter() time.Duration { return a.perEmitter }
func (a *Attack) IsFinished() bool              { return a.finished }
func (a *Attack) Killed() bool                  { return a.killed }

//Initialize binds the attack to a rig and places every window before the arc
func (a *Attack) Initialize(r *emitter.Rig) {
	if a.rig != nil {
		invariant(a.cfg.Name, "initialized twice")
	}
	a.rig = r
	for _, s := range a.cfg.Side.Sides() {
		t := a.cfg.Thickness
		l := &lane{
			arc:    r.Arc(s),
			index:  -t,
			active: make([]bool, t),
			lit:    make([]bool, t),
			done:   make([]bool, t),
		}
		for i := range l.active {
			l.active[i] = true
		}
		a.lanes = append(a.lanes, l)
	}
}

//WindowIndex is the logical position of slot 0 on the given side, or false
//if the attack does not travel on that side
func (a *Attack) WindowIndex(s emitter.Side) (int, bool) {
	for _, l := range a.lanes {
		if l.arc.Side() == s {
			return l.index, true
		}
	}
	return 0, false
}

//ActiveSlots reports which window slots can still deal damage on a side
func (a *Attack) ActiveSlots(s emitter.Side) []bool {
	for _, l := range a.lanes {
		if l.arc.Side() == s {
			out := make([]bool, len(l.active))
			copy(out, l.active)
			return out
		}
	}
	return nil
}

func (a *Attack) Tick(dt time.Duration) []Hit {
	if a.finished {
		invariant(a.cfg.Name, "ticked after finishing")
	}
	if a.rig == nil {
		invariant(a.cfg.Name, "ticked before Initialize")
	}
	a.elapsed += dt

	var hits []Hit
	for _, l := range a.lanes {
		hits = append(hits, a.tickLane(l, dt)...)
	}

	if a.elapsed >= a.cfg.Duration || a.allDone() {
		a.finished = true
		a.Release()
	}
	return hits
}

func (a *Attack) tickLane(l *lane, dt time.Duration) []Hit {
	owner := a.cfg.Owner
	var hits []Hit

	//blocks that landed since the last tick
	for i := range l.lit {
		if !l.lit[i] {
			continue
		}
		if f := l.arc.At(owner, l.index+i); f == nil || !f.HasAttackFlameOwnedByPlayer(owner) {
			l.lit[i] = false
			l.active[i] = false
		}
	}

	l.acc += dt
	for l.acc >= a.perEmitter && !l.allDone() {
		for i := range l.lit {
			if l.lit[i] {
				l.arc.At(owner, l.index+i).FireOff(owner, emitter.AttackFlame)
				l.lit[i] = false
			}
		}
		l.index++
		l.acc -= a.perEmitter

		for i := range l.active {
			if !l.active[i] || l.done[i] {
				continue
			}
			f := l.arc.At(owner, l.index+i)
			if f == nil {
				continue
			}
			if f.FireOn(owner, emitter.AttackFlame) {
				l.lit[i] = true
			} else {
				l.active[i] = false
			}
		}

		//slots arriving at the last emitter are resolved exactly once
		for i := range l.done {
			if l.done[i] || l.index+i < emitter.ArcLength-1 {
				continue
			}
			l.done[i] = true
			if l.active[i] {
				hits = append(hits, Hit{
					Attacker: owner,
					Victim:   Opponent(owner),
					Damage:   a.cfg.Damage,
					Move:     a.cfg.Name,
					Side:     l.arc.Side(),
					Slot:     i,
				})
				l.active[i] = false
			}
		}
	}

	//keep asserting ownership so a block arriving between shifts is seen
	for i := range l.lit {
		if !l.lit[i] {
			continue
		}
		if !l.arc.At(owner, l.index+i).FireOn(owner, emitter.AttackFlame) {
			l.lit[i] = false
			l.active[i] = false
		}
	}

	//strobe the second half of every step
	if 2*l.acc > a.perEmitter {
		for i := range l.lit {
			if l.lit[i] {
				l.arc.At(owner, l.index+i).Strobe()
			}
		}
	}
	return hits
}

func (l *lane) allDone() bool {
	for _, d := range l.done {
		if !d {
			return false
		}
	}
	return true
}

func (a *Attack) allDone() bool {
	for _, l := range a.lanes {
		if !l.allDone() {
			return false
		}
	}
	return true
}

//Kill stops the attack where it is
func (a *Attack) Kill() {
	if a.killed {
		return
	}
	a.killed = true
	a.finished = true
	a.Release()
}

//Release turns off every emitter this attack still holds
func (a *Attack) Release() {
	owner := a.cfg.Owner
	for _, l := range a.lanes {
		for i := range l.lit {
			if l.lit[i] {
				l.arc.At(owner, l.index+i).FireOff(owner, emitter.AttackFlame)
				l.lit[i] = false
			}
		}
	}
}

func (a *Attack) String() string {
	return fmt.Sprintf("p%d %v (%v, t=%d, %v)", a.cfg.Owner, a.cfg.Name, a.cfg.Side, a.cfg.Thickness, a.cfg.Duration)
}
