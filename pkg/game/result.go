package game

import (
	"fmt"
	"time"
)

type RoundResult struct {
	Round int
	//Winner is 0 when nobody scored
	Winner   int
	Reason   EndReason
	HP       [2]int
	Duration time.Duration
}

func (r RoundResult) String() string {
	if r.Winner == 0 {
		return fmt.Sprintf("round %d: %v (hp %v)", r.Round, r.Reason, r.HP)
	}
	return fmt.Sprintf("round %d: p%d by %v (hp %v)", r.Round, r.Winner, r.Reason, r.HP)
}

//MatchResult is handed to OnMatchOver once a player has won enough rounds
type MatchResult struct {
	Label  string
	Winner int
	Rounds []RoundResult
	//per player: hits landed, enemy flames put out by their blocks, damage taken
	Hits   [2]int
	Blocks [2]int
	Damage [2]int
	//simulated time from Start to MatchOver
	Duration time.Duration
	Ticks    int
}

func (m MatchResult) String() string {
	return fmt.Sprintf("%v: p%d wins %d rounds in %v; hits %v blocks %v damage %v",
		m.Label, m.Winner, len(m.Rounds), m.Duration, m.Hits, m.Blocks, m.Damage)
}
