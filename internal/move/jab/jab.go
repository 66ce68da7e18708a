package jab

import (
	"fmt"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
	"github.com/srliao/streetfire/pkg/gesture"
)

func init() {
	combat.RegisterMoveFunc("left_jab", BuildLeftJabAttack)
	combat.RegisterMoveFunc("right_jab", BuildRightJabAttack)
}

//BuildLeftJabAttack sends a quick single flame down the arc of the player's left glove
func BuildLeftJabAttack(player int, p combat.MoveProfile) (combat.Action, error) {
	return build(gesture.LeftJab, player, p)
}

func BuildRightJabAttack(player int, p combat.MoveProfile) (combat.Action, error) {
	return build(gesture.RightJab, player, p)
}

func build(k gesture.Kind, player int, p combat.MoveProfile) (combat.Action, error) {
	h, ok := k.Hand()
	if !ok {
		return nil, fmt.Errorf("%v is not a one-handed move", k)
	}
	name := k.String()
	a, err := combat.NewAttack(combat.AttackConfig{
		Name:      name,
		Owner:     player,
		Side:      emitter.SideForHand(player, h),
		Thickness: p.Thickness,
		Duration:  p.Duration,
		Damage:    p.Damage,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
