package emitter

import "fmt"

//InvariantError is raised (via panic) when the single-writer assumptions of the
//emitter graph are broken. It is not recoverable within a match.
type InvariantError struct {
	Side  Side
	Index int
	State FireState
	Event Event
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("emitter %v[%d]: %v on %v: %v", e.Side, e.Index, e.Event, e.State, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

//BlockFunc is called whenever an emitter passes through the Blocked pseudo-state
type BlockFunc func(f *FireEmitter, t Transition)

//FireEmitter is one physical flame nozzle
type FireEmitter struct {
	side  Side
	index int

	state    FireState
	out      Output
	strobed  bool
	onBlock  BlockFunc
	blockCnt int
}

//New creates an emitter in the Off state
func New(side Side, index int) *FireEmitter {
	return &FireEmitter{
		side:  side,
		index: index,
	}
}

func (f *FireEmitter) Side() Side      { return f.side }
func (f *FireEmitter) Index() int      { return f.index }
func (f *FireEmitter) State() FireState { return f.state }

//Lit reports whether the state machine holds the flame on
func (f *FireEmitter) Lit() bool { return f.out.Flame }

//FlameVisible is what the hardware is told: lit and not strobed off
func (f *FireEmitter) FlameVisible() bool { return f.out.Flame && !f.strobed }

func (f *FireEmitter) P1ColourOn() bool { return f.out.P1Colour }
func (f *FireEmitter) P2ColourOn() bool { return f.out.P2Colour }

//BlockCount is the number of blocks resolved on this emitter since the last reset
func (f *FireEmitter) BlockCount() int { return f.blockCnt }

func (f *FireEmitter) HasAttackFlameOwnedByPlayer(player int) bool {
	return f.state.HasAttack(player)
}

func (f *FireEmitter) HasBlockFlameOwnedByPlayer(player int) bool {
	return f.state.HasBlock(player)
}

//FireOn requests the flame for the player. The return value tells the caller
//whether it still owns a flame of the requested type after the transition; an
//attack that ran into an enemy block gets false.
func (f *FireEmitter) FireOn(player int, flame FlameType) bool {
	f.apply(EventFor(player, flame, true))
	if flame == BlockFlame {
		return f.HasBlockFlameOwnedByPlayer(player)
	}
	return f.HasAttackFlameOwnedByPlayer(player)
}

//FireOff releases the player's flame of the given type. Releasing a flame that
//is not owned is a no-op.
func (f *FireEmitter) FireOff(player int, flame FlameType) {
	f.apply(EventFor(player, flame, false))
}

//Strobe hides the flame without touching ownership; the next state change or
//FireOn relights it
func (f *FireEmitter) Strobe() {
	f.strobed = true
}

//Reset forces the emitter off, dropping any ownership
func (f *FireEmitter) Reset() {
	f.enter(Off)
	f.blockCnt = 0
}

func (f *FireEmitter) apply(e Event) {
	t, err := Step(f.state, e)
	if err != nil {
		panic(&InvariantError{
			Side:  f.side,
			Index: f.index,
			State: f.state,
			Event: e,
			Err:   err,
		})
	}
	if t.Blocked {
		f.blockCnt++
		if f.onBlock != nil {
			f.onBlock(f, t)
		}
	}
	f.enter(t.Next)
}

func (f *FireEmitter) enter(s FireState) {
	f.state = s
	f.out = s.Output()
	f.strobed = false
}

func (f *FireEmitter) String() string {
	return fmt.Sprintf("%v[%d]:%v", f.side, f.index, f.state)
}
