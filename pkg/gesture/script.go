package gesture

import (
	"sort"
	"time"
)

//Timed is a move scheduled at an offset from the start of a round
type Timed struct {
	At   time.Duration
	Move Move
}

//Script replays a fixed timeline of moves into a mailbox; it stands in for
//the glove recognizer in the simulator and in tests
type Script struct {
	items []Timed
	pos   int
}

//NewScript sorts the timeline; moves at equal times keep their given order
func NewScript(items []Timed) *Script {
	s := &Script{items: make([]Timed, len(items))}
	copy(s.items, items)
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].At < s.items[j].At
	})
	return s
}

//Due returns the moves whose time is <= t that have not been returned yet
func (s *Script) Due(t time.Duration) []Move {
	var out []Move
	for s.pos < len(s.items) && s.items[s.pos].At <= t {
		out = append(out, s.items[s.pos].Move)
		s.pos++
	}
	return out
}

//Done reports whether every move has been handed out
func (s *Script) Done() bool {
	return s.pos >= len(s.items)
}

//Rewind starts the timeline over
func (s *Script) Rewind() {
	s.pos = 0
}

//Len is the number of moves in the script
func (s *Script) Len() int {
	return len(s.items)
}
