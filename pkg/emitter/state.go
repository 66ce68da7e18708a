package emitter

import (
	"errors"
	"fmt"
)

//FireState describes who owns the flame of one emitter and why
type FireState int

const (
	Off FireState = iota
	P1Attack
	P2Attack
	P1AndP2Attack
	P1Block
	P2Block
	P1AttackAndBlock
	P2AttackAndBlock
	//Blocked is never a resting state; a transition through it is reported via Transition.Blocked
	Blocked
)

var stateNames = [...]string{
	"off",
	"p1-attack",
	"p2-attack",
	"p1-and-p2-attack",
	"p1-block",
	"p2-block",
	"p1-attack-and-block",
	"p2-attack-and-block",
	"blocked",
}

func (s FireState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

//FlameType is the reason a player wants an emitter lit
type FlameType int

const (
	AttackFlame FlameType = iota
	BlockFlame
)

func (f FlameType) String() string {
	if f == BlockFlame {
		return "block"
	}
	return "attack"
}

//Event is an input to the emitter state machine
type Event int

const (
	TurnOnP1Attack Event = iota
	TurnOnP1Block
	TurnOnP2Attack
	TurnOnP2Block
	TurnOffP1Attack
	TurnOffP1Block
	TurnOffP2Attack
	TurnOffP2Block
)

var eventNames = [...]string{
	"on-p1-attack",
	"on-p1-block",
	"on-p2-attack",
	"on-p2-block",
	"off-p1-attack",
	"off-p1-block",
	"off-p2-attack",
	"off-p2-block",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

//EventFor maps a (player, flame, on/off) request onto a state machine event
func EventFor(player int, flame FlameType, on bool) Event {
	var e Event
	switch {
	case flame == AttackFlame && on:
		e = TurnOnP1Attack
	case flame == BlockFlame && on:
		e = TurnOnP1Block
	case flame == AttackFlame:
		e = TurnOffP1Attack
	default:
		e = TurnOffP1Block
	}
	if player == 2 {
		//p2 events sit two slots after their p1 twin within each on/off group
		e += 2
	}
	return e
}

//ErrDoubleBlock is raised when both players try to block on the same emitter
var ErrDoubleBlock = errors.New("two blocks cannot own the same emitter")

//Transition is the result of feeding one event into the state machine
type Transition struct {
	Next FireState
	//Blocked is set when the event passed through the Blocked pseudo-state
	Blocked bool
	//Extinguished is the player whose attack flame was put out by the block (0 if none)
	Extinguished int
}

//Output is the visible side effect of entering a state
type Output struct {
	Flame    bool
	P1Colour bool
	P2Colour bool
}

//Output returns the physical outputs for a resting state
func (s FireState) Output() Output {
	return Output{
		Flame:    s != Off && s != Blocked,
		P1Colour: s.owns(1),
		P2Colour: s.owns(2),
	}
}

func (s FireState) owns(player int) bool {
	return s.HasAttack(player) || s.HasBlock(player)
}

//HasAttack reports whether the player holds an attack flame in this state
func (s FireState) HasAttack(player int) bool {
	switch s {
	case P1AndP2Attack:
		return true
	case P1Attack, P1AttackAndBlock:
		return player == 1
	case P2Attack, P2AttackAndBlock:
		return player == 2
	}
	return false
}

//HasBlock reports whether the player holds a block flame in this state
func (s FireState) HasBlock(player int) bool {
	switch s {
	case P1Block, P1AttackAndBlock:
		return player == 1
	case P2Block, P2AttackAndBlock:
		return player == 2
	}
	return false
}

func stay(s FireState) (Transition, error) {
	return Transition{Next: s}, nil
}

func blocked(next FireState, loser int) (Transition, error) {
	return Transition{Next: next, Blocked: true, Extinguished: loser}, nil
}

//Step is the pure transition function of the emitter state machine. Unhandled
//events leave the state unchanged. The only error is ErrDoubleBlock.
func Step(s FireState, e Event) (Transition, error) {
	switch s {
	case Off:
		switch e {
		case TurnOnP1Attack:
			return stay(P1Attack)
		case TurnOnP2Attack:
			return stay(P2Attack)
		case TurnOnP1Block:
			return stay(P1Block)
		case TurnOnP2Block:
			return stay(P2Block)
		}

	case P1Attack:
		switch e {
		case TurnOnP1Block:
			return stay(P1AttackAndBlock)
		case TurnOnP2Attack:
			return stay(P1AndP2Attack)
		case TurnOnP2Block:
			return blocked(P2Block, 1)
		case TurnOffP1Attack:
			return stay(Off)
		}
	case P2Attack:
		switch e {
		case TurnOnP2Block:
			return stay(P2AttackAndBlock)
		case TurnOnP1Attack:
			return stay(P1AndP2Attack)
		case TurnOnP1Block:
			return blocked(P1Block, 2)
		case TurnOffP2Attack:
			return stay(Off)
		}

	case P1AndP2Attack:
		switch e {
		case TurnOnP1Block:
			return blocked(P1AttackAndBlock, 2)
		case TurnOnP2Block:
			return blocked(P2AttackAndBlock, 1)
		case TurnOffP1Attack:
			return stay(P2Attack)
		case TurnOffP2Attack:
			return stay(P1Attack)
		}

	case P1Block:
		switch e {
		case TurnOnP1Attack:
			return stay(P1AttackAndBlock)
		case TurnOnP2Attack:
			//p2's flame never lights
			return blocked(P1Block, 2)
		case TurnOnP2Block:
			return Transition{Next: s}, ErrDoubleBlock
		case TurnOffP1Block:
			return stay(Off)
		}
	case P2Block:
		switch e {
		case TurnOnP2Attack:
			return stay(P2AttackAndBlock)
		case TurnOnP1Attack:
			return blocked(P2Block, 1)
		case TurnOnP1Block:
			return Transition{Next: s}, ErrDoubleBlock
		case TurnOffP2Block:
			return stay(Off)
		}

	case P1AttackAndBlock:
		switch e {
		case TurnOnP2Attack:
			return blocked(P1AttackAndBlock, 2)
		case TurnOnP2Block:
			return Transition{Next: s}, ErrDoubleBlock
		case TurnOffP1Attack:
			return stay(P1Block)
		case TurnOffP1Block:
			return stay(P1Attack)
		}
	case P2AttackAndBlock:
		switch e {
		case TurnOnP1Attack:
			return blocked(P2AttackAndBlock, 1)
		case TurnOnP1Block:
			return Transition{Next: s}, ErrDoubleBlock
		case TurnOffP2Attack:
			return stay(P2Block)
		case TurnOffP2Block:
			return stay(P2Attack)
		}
	}
	return stay(s)
}
