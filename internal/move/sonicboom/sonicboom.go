package sonicboom

import (
	"fmt"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
)

func init() {
	combat.RegisterMoveFunc("sonic_boom", BuildSonicBoomAttack)
}

//BuildSonicBoomAttack is a wide, fast wave on both arcs
func BuildSonicBoomAttack(player int, p combat.MoveProfile) (combat.Action, error) {
	side, err := p.SideOr(emitter.Both)
	if err != nil {
		return nil, err
	}
	if p.Thickness < 2 {
		return nil, fmt.Errorf("sonic_boom: thickness %d too thin for a wave", p.Thickness)
	}
	a, err := combat.NewAttack(combat.AttackConfig{
		Name:      "sonic_boom",
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
