package combat

import (
	"fmt"
	"time"

	"github.com/srliao/streetfire/pkg/emitter"
)

//Action is an in-flight attack or block. The set of implementations is
//closed: only *Attack and *Block satisfy it.
type Action interface {
	Initialize(r *emitter.Rig)
	//Tick advances the action and returns the hits that landed this tick.
	//Ticking a finished action is an invariant violation.
	Tick(dt time.Duration) []Hit
	IsFinished() bool
	//Kill stops the action and releases its emitters; safe to call repeatedly
	Kill()
	//Release turns off every emitter the action still owns; safe to call repeatedly
	Release()
	Owner() int
	Side() emitter.Side
	Name() string

	isAction()
}

//Hit is one landed attack slot
type Hit struct {
	Attacker int
	Victim   int
	Damage   int
	Move     string
	Side     emitter.Side
	Slot     int
}

func (h Hit) String() string {
	return fmt.Sprintf("p%d %v hit p%d for %d (%v slot %d)", h.Attacker, h.Move, h.Victim, h.Damage, h.Side, h.Slot)
}

//InvariantError is raised (via panic) when an action is driven outside its
//lifecycle or built with parameters a factory should have rejected
type InvariantError struct {
	Action string
	Msg    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("combat: %v: %v", e.Action, e.Msg)
}

func invariant(action, format string, args ...interface{}) {
	panic(&InvariantError{Action: action, Msg: fmt.Sprintf(format, args...)})
}

func validOwner(p int) bool {
	return p == 1 || p == 2
}

func validSide(s emitter.Side) bool {
	return s == emitter.Left || s == emitter.Right || s == emitter.Both
}
