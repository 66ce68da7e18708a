package gesture

import (
	"fmt"

	"github.com/srliao/streetfire/pkg/emitter"
)

//Kind is a discrete recognized move
type Kind int

//Kind constants
const (
	LeftJab Kind = iota
	RightJab
	LeftHook
	RightHook
	Hadouken
	SonicBoom
	LeftBlock
	RightBlock
	BlockRelease
	EndKind
)

var kindNames = [...]string{
	"left_jab",
	"right_jab",
	"left_hook",
	"right_hook",
	"hadouken",
	"sonic_boom",
	"left_block",
	"right_block",
	"block_release",
}

func (k Kind) String() string {
	if k < 0 || k >= EndKind {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

//ParseKind converts a snake_case move name into a Kind
func ParseKind(s string) (Kind, error) {
	for i, v := range kindNames {
		if v == s {
			return Kind(i), nil
		}
	}
	return -1, fmt.Errorf("unknown move %q", s)
}

//Hand returns the glove a one-handed move is made with; ok is false for
//two-handed moves and releases
func (k Kind) Hand() (h emitter.Hand, ok bool) {
	switch k {
	case LeftJab, LeftHook, LeftBlock:
		return emitter.LeftHand, true
	case RightJab, RightHook, RightBlock:
		return emitter.RightHand, true
	}
	return 0, false
}

//IsBlock reports whether the move raises a block
func (k Kind) IsBlock() bool {
	return k == LeftBlock || k == RightBlock
}

//Move is a gesture event from one player's gloves. It is delivered once per
//recognized gesture transition, not every frame.
type Move struct {
	Player int
	Kind   Kind
}

func (m Move) String() string {
	return fmt.Sprintf("p%d:%v", m.Player, m.Kind)
}

//Validate rejects moves the core must never see
func (m Move) Validate() error {
	if m.Player != 1 && m.Player != 2 {
		return fmt.Errorf("invalid player %d in move %v", m.Player, m.Kind)
	}
	if m.Kind < 0 || m.Kind >= EndKind {
		return fmt.Errorf("invalid move kind %d", int(m.Kind))
	}
	return nil
}
