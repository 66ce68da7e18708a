package game

import "fmt"

//State is the phase of a match
type State int

const (
	Idle State = iota
	Calibration
	RoundBegin
	RoundInPlay
	RoundEnded
	SettleTie
	MatchOver
	Paused
)

var stateNames = [...]string{
	"idle",
	"calibration",
	"round_begin",
	"round_in_play",
	"round_ended",
	"settle_tie",
	"match_over",
	"paused",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

//Running is true for every state between Start and MatchOver
func (s State) Running() bool {
	switch s {
	case Calibration, RoundBegin, RoundInPlay, RoundEnded, SettleTie:
		return true
	}
	return false
}

//EndReason says how a round was decided
type EndReason int

const (
	KnockOut EndReason = iota
	DoubleKnockOut
	TimeOut
	SuddenDeath
	Draw
)

var reasonNames = [...]string{
	"knock_out",
	"double_knock_out",
	"time_out",
	"sudden_death",
	"draw",
}

func (r EndReason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}
