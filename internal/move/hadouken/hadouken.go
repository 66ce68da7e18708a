package hadouken

import (
	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
)

func init() {
	combat.RegisterMoveFunc("hadouken", BuildHadoukenAttack)
}

//BuildHadoukenAttack is the two-handed fireball; it travels down both arcs at once
func BuildHadoukenAttack(player int, p combat.MoveProfile) (combat.Action, error) {
	side, err := p.SideOr(emitter.Both)
	if err != nil {
		return nil, err
	}
	a, err := combat.NewAttack(combat.AttackConfig{
		Name:      "hadouken",
		Owner:     player,
		Side:      side,
		Thickness: p.Thickness,
		Duration:  p.Duration,
		Damage:    p.Damage,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
