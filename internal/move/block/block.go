package block

import (
	"fmt"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
	"github.com/srliao/streetfire/pkg/gesture"
)

func init() {
	combat.RegisterMoveFunc("left_block", BuildLeftBlock)
	combat.RegisterMoveFunc("right_block", BuildRightBlock)
}

//BuildLeftBlock raises a guard on the arc of the player's left glove
func BuildLeftBlock(player int, p combat.MoveProfile) (combat.Action, error) {
	return build(gesture.LeftBlock, player, p)
}

func BuildRightBlock(player int, p combat.MoveProfile) (combat.Action, error) {
	return build(gesture.RightBlock, player, p)
}

func build(k gesture.Kind, player int, p combat.MoveProfile) (combat.Action, error) {
	h, ok := k.Hand()
	if !ok {
		return nil, fmt.Errorf("%v is not a one-handed move", k)
	}
	name := k.String()
	a, err := combat.NewBlock(combat.BlockConfig{
		Name:      name,
		Owner:     player,
		Side:      emitter.SideForHand(player, h),
		Thickness: p.Thickness,
		TimeLimit: p.TimeLimit,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
