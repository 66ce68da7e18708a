package combat

import (
	"errors"
	"fmt"
	"time"

	"github.com/srliao/streetfire/pkg/emitter"
)

//MoveProfile holds the tunable parameters of one move. Attacks use Thickness,
//Duration and Damage; blocks use Thickness and TimeLimit.
type MoveProfile struct {
	Thickness int           `yaml:"Thickness"`
	Duration  time.Duration `yaml:"Duration"`
	Damage    int           `yaml:"Damage"`
	TimeLimit time.Duration `yaml:"TimeLimit"`
	//Side overrides the arc(s) of a two-handed move; one-handed moves always
	//follow the hand that threw them
	Side string `yaml:"Side"`
}

//MoveBook maps a move name to its profile
type MoveBook map[string]MoveProfile

//DefaultMoves is the move book the installation ships with
func DefaultMoves() MoveBook {
	return MoveBook{
		"left_jab":    {Thickness: 1, Duration: 2 * time.Second, Damage: 4},
		"right_jab":   {Thickness: 1, Duration: 2 * time.Second, Damage: 4},
		"left_hook":   {Thickness: 2, Duration: 3 * time.Second, Damage: 5},
		"right_hook":  {Thickness: 2, Duration: 3 * time.Second, Damage: 5},
		"hadouken":    {Thickness: 2, Duration: 4 * time.Second, Damage: 6, Side: "both"},
		"sonic_boom":  {Thickness: 3, Duration: 3 * time.Second, Damage: 4, Side: "both"},
		"left_block":  {Thickness: 2, TimeLimit: 3 * time.Second},
		"right_block": {Thickness: 2, TimeLimit: 3 * time.Second},
	}
}

//Merge returns a copy of b with every entry of o applied on top
func (b MoveBook) Merge(o MoveBook) MoveBook {
	out := make(MoveBook, len(b)+len(o))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

//Overlay is Merge, except that an entry of o overriding an existing move
//only replaces the fields it sets
func (b MoveBook) Overlay(o MoveBook) MoveBook {
	out := b.Merge(nil)
	for k, v := range o {
		if def, ok := b[k]; ok {
			v = v.Fill(def)
		}
		out[k] = v
	}
	return out
}

//Check builds every registered move for both players so a bad profile is
//rejected up front instead of every time the move is thrown
func (b MoveBook) Check() error {
	var errs []error
	for _, name := range RegisteredMoves() {
		for player := 1; player <= 2; player++ {
			if _, err := BuildMove(name, player, b); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

//Fill returns p with every unset field taken from def
func (p MoveProfile) Fill(def MoveProfile) MoveProfile {
	if p.Thickness == 0 {
		p.Thickness = def.Thickness
	}
	if p.Duration == 0 {
		p.Duration = def.Duration
	}
	if p.Damage == 0 {
		p.Damage = def.Damage
	}
	if p.TimeLimit == 0 {
		p.TimeLimit = def.TimeLimit
	}
	if p.Side == "" {
		p.Side = def.Side
	}
	return p
}

//SideOr parses the Side override, falling back to def when it is empty
func (p MoveProfile) SideOr(def emitter.Side) (emitter.Side, error) {
	if p.Side == "" {
		return def, nil
	}
	s, err := emitter.ParseSide(p.Side)
	if err != nil {
		return def, fmt.Errorf("invalid side override: %w", err)
	}
	return s, nil
}
