package emitter

import "fmt"

//ArcLength is the number of emitters in each arc of the reference hardware
const ArcLength = 8

//Side names an arc. Sides are fixed to the arena and named from player 1's
//point of view.
type Side int

const (
	Left Side = iota
	Right
	Both
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Both:
		return "both"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

//Sides expands Both into the two arcs it covers
func (s Side) Sides() []Side {
	if s == Both {
		return []Side{Left, Right}
	}
	return []Side{s}
}

//ParseSide converts a profile string into a Side
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "both":
		return Both, nil
	}
	return 0, fmt.Errorf("invalid side %q", s)
}

//Hand is the glove a gesture was made with
type Hand int

const (
	LeftHand Hand = iota
	RightHand
)

//SideForHand maps a player's hand onto the arena arc it drives. The players
//face each other, so player 2's left hand sits over the right arc.
func SideForHand(player int, h Hand) Side {
	if player == 2 {
		if h == LeftHand {
			return Right
		}
		return Left
	}
	if h == LeftHand {
		return Left
	}
	return Right
}

//PhysicalIndex translates an index seen from the player (0 = nearest) into
//the physical arc index. Every action goes through here; nothing else mirrors.
func PhysicalIndex(player, logical int) int {
	if player == 2 {
		return ArcLength - 1 - logical
	}
	return logical
}

//Arc is a fixed ordered run of emitters
type Arc struct {
	side     Side
	emitters [ArcLength]*FireEmitter
}

func NewArc(side Side) *Arc {
	a := &Arc{side: side}
	for i := range a.emitters {
		a.emitters[i] = New(side, i)
	}
	return a
}

func (a *Arc) Side() Side { return a.side }
func (a *Arc) Len() int   { return ArcLength }

//At returns the emitter at the player's logical index, or nil when the index
//is outside the arc
func (a *Arc) At(player, logical int) *FireEmitter {
	if logical < 0 || logical >= ArcLength {
		return nil
	}
	return a.emitters[PhysicalIndex(player, logical)]
}

//Physical returns the emitter at a physical index
func (a *Arc) Physical(i int) *FireEmitter {
	return a.emitters[i]
}

func (a *Arc) Reset() {
	for _, f := range a.emitters {
		f.Reset()
	}
}

//Rig is the complete installation: a left and a right arc
type Rig struct {
	arcs [2]*Arc
}

//NewRig builds both arcs; onBlock (may be nil) observes every resolved block
func NewRig(onBlock BlockFunc) *Rig {
	r := &Rig{
		arcs: [2]*Arc{NewArc(Left), NewArc(Right)},
	}
	for _, a := range r.arcs {
		for _, f := range a.emitters {
			f.onBlock = onBlock
		}
	}
	return r
}

//Arc returns the arc for a single side; Both is not a valid argument
func (r *Rig) Arc(s Side) *Arc {
	if s != Left && s != Right {
		panic(fmt.Sprintf("emitter: no single arc for side %v", s))
	}
	return r.arcs[s]
}

//SetBlockHook replaces the block observer on every emitter
func (r *Rig) SetBlockHook(fn BlockFunc) {
	for _, a := range r.arcs {
		for _, f := range a.emitters {
			f.onBlock = fn
		}
	}
}

//Reset turns every emitter off
func (r *Rig) Reset() {
	for _, a := range r.arcs {
		a.Reset()
	}
}

//EmitterState is the sampled triple the transport layer sends to hardware
type EmitterState struct {
	Flame    bool `msgpack:"f"`
	P1Colour bool `msgpack:"c1"`
	P2Colour bool `msgpack:"c2"`
}

//Snapshot is the committed state of both arcs, physical order
type Snapshot struct {
	Left  [ArcLength]EmitterState `msgpack:"l"`
	Right [ArcLength]EmitterState `msgpack:"r"`
}

//Snapshot samples every emitter; call it only between ticks
func (r *Rig) Snapshot() Snapshot {
	var s Snapshot
	for i := 0; i < ArcLength; i++ {
		s.Left[i] = sample(r.arcs[Left].emitters[i])
		s.Right[i] = sample(r.arcs[Right].emitters[i])
	}
	return s
}

func sample(f *FireEmitter) EmitterState {
	return EmitterState{
		Flame:    f.FlameVisible(),
		P1Colour: f.P1ColourOn(),
		P2Colour: f.P2ColourOn(),
	}
}

//States returns the FireState of every emitter of a side in physical order
func (r *Rig) States(s Side) []FireState {
	a := r.Arc(s)
	out := make([]FireState, ArcLength)
	for i, f := range a.emitters {
		out[i] = f.state
	}
	return out
}

//AnyLit reports whether any emitter still holds a flame
func (r *Rig) AnyLit() bool {
	for _, a := range r.arcs {
		for _, f := range a.emitters {
			if f.Lit() {
				return true
			}
		}
	}
	return false
}
