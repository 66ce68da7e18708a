package combat

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu      sync.RWMutex
	moveMap = make(map[string]NewMoveFunc)
)

//NewMoveFunc builds the action a player's move starts. Factories validate the
//profile and return an error rather than an action that would break an
//emitter invariant.
type NewMoveFunc func(player int, p MoveProfile) (Action, error)

//RegisterMoveFunc makes a move available by name; registering a name twice panics
func RegisterMoveFunc(name string, f NewMoveFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := moveMap[name]; dup {
		panic("combat: RegisterMove called twice for move " + name)
	}
	moveMap[name] = f
}

//BuildMove looks up the factory for name and builds it with the book's profile
func BuildMove(name string, player int, book MoveBook) (Action, error) {
	mu.RLock()
	f, ok := moveMap[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unrecognized move %v", name)
	}
	p, ok := book[name]
	if !ok {
		return nil, fmt.Errorf("no profile for move %v", name)
	}
	a, err := f(player, p)
	if err != nil {
		return nil, fmt.Errorf("building %v for p%d: %w", name, player, err)
	}
	return a, nil
}

//RegisteredMoves lists every registered move name in sorted order
func RegisteredMoves() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(moveMap))
	for k := range moveMap {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
