package hook

import (
	"fmt"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
	"github.com/srliao/streetfire/pkg/gesture"
)

func init() {
	combat.RegisterMoveFunc("left_hook", BuildLeftHookAttack)
	combat.RegisterMoveFunc("right_hook", BuildRightHookAttack)
}

//a hook is a heavier jab: never thinner than two flames
const minThickness = 2

func BuildLeftHookAttack(player int, p combat.MoveProfile) (combat.Action, error) {
	return build(gesture.LeftHook, player, p)
}

func BuildRightHookAttack(player int, p combat.MoveProfile) (combat.Action, error) {
	return build(gesture.RightHook, player, p)
}

func build(k gesture.Kind, player int, p combat.MoveProfile) (combat.Action, error) {
	h, ok := k.Hand()
	if !ok {
		return nil, fmt.Errorf("%v is not a one-handed move", k)
	}
	name := k.String()
	if p.Thickness < minThickness {
		return nil, fmt.Errorf("%v: thickness %d below %d", name, p.Thickness, minThickness)
	}
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
