package combat

import "fmt"

//MaxHitPoints is the health every player starts a round with
const MaxHitPoints = 100

//Player keeps track of one fighter's health and score
type Player struct {
	Num       int
	HP        int
	RoundWins int

	//match totals
	DamageTaken int
	HitsTaken   int

	//OnHealthChanged is called after every DoDamage that changed HP
	OnHealthChanged func(p *Player, old, new int)
}

func NewPlayer(num int) *Player {
	if num != 1 && num != 2 {
		panic(fmt.Sprintf("combat: invalid player number %d", num))
	}
	return &Player{
		Num: num,
		HP:  MaxHitPoints,
	}
}

//Opponent returns the other player's number
func Opponent(num int) int {
	return 3 - num
}

//DoDamage removes hit points; health never drops below zero
func (p *Player) DoDamage(amount int) {
	if amount <= 0 {
		return
	}
	old := p.HP
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	p.DamageTaken += old - p.HP
	p.HitsTaken++
	if p.OnHealthChanged != nil && old != p.HP {
		p.OnHealthChanged(p, old, p.HP)
	}
}

//KnockedOut is true once health reaches zero
func (p *Player) KnockedOut() bool {
	return p.HP <= 0
}

//ResetForRound restores full health; round wins and match totals are kept
func (p *Player) ResetForRound() {
	p.HP = MaxHitPoints
}

func (p *Player) String() string {
	return fmt.Sprintf("p%d(hp %d, wins %d)", p.Num, p.HP, p.RoundWins)
}
