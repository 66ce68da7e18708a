package combat

import (
	"fmt"
	"time"

	"github.com/srliao/streetfire/pkg/emitter"
)

//BlockConfig holds the parameters of one block
type BlockConfig struct {
	Name      string
	Owner     int
	Side      emitter.Side
	Thickness int
	TimeLimit time.Duration
}

//MaxBlockThickness keeps the two players' blocks from ever sharing an emitter
const MaxBlockThickness = emitter.ArcLength / 2

//Block holds the Thickness emitters nearest its owner until it is released or
//its time limit runs out
type Block struct {
	cfg BlockConfig

	rig      *emitter.Rig
	emitters []*emitter.FireEmitter
	elapsed  time.Duration
	lit      bool
	finished bool
	killed   bool
	released bool
}

func NewBlock(cfg BlockConfig) (*Block, error) {
	if !validOwner(cfg.Owner) {
		return nil, fmt.Errorf("block %v: invalid owner %d", cfg.Name, cfg.Owner)
	}
	if !validSide(cfg.Side) {
		return nil, fmt.Errorf("block %v: invalid side %v", cfg.Name, cfg.Side)
	}
	if cfg.Thickness < 1 || cfg.Thickness > MaxBlockThickness {
		return nil, fmt.Errorf("block %v: thickness %d outside [1,%d]", cfg.Name, cfg.Thickness, MaxBlockThickness)
	}
	if cfg.TimeLimit <= 0 {
		return nil, fmt.Errorf("block %v: time limit must be positive", cfg.Name)
	}
	return &Block{cfg: cfg}, nil
}

func (b *Block) isAction() {}

func (b *Block) Owner() int         { return b.cfg.Owner }
func (b *Block) Side() emitter.Side { return b.cfg.Side }
func (b *Block) Name() string       { return b.cfg.Name }
func (b *Block) IsFinished() bool   { return b.finished }
func (b *Block) Lit() bool          { return b.lit && !b.released }

func (b *Block) Initialize(r *emitter.Rig) {
	if b.rig != nil {
		invariant(b.cfg.Name, "initialized twice")
	}
	b.rig = r
	for _, s := range b.cfg.Side.Sides() {
		arc := r.Arc(s)
		for i := 0; i < b.cfg.Thickness; i++ {
			b.emitters = append(b.emitters, arc.At(b.cfg.Owner, i))
		}
	}
}

//Emitters returns the emitters the block covers
func (b *Block) Emitters() []*emitter.FireEmitter {
	return b.emitters
}

func (b *Block) Tick(dt time.Duration) []Hit {
	if b.finished {
		invariant(b.cfg.Name, "ticked after finishing")
	}
	if b.rig == nil {
		invariant(b.cfg.Name, "ticked before Initialize")
	}
	if !b.lit && !b.released {
		for _, f := range b.emitters {
			f.FireOn(b.cfg.Owner, emitter.BlockFlame)
		}
		b.lit = true
	}
	b.elapsed += dt
	if b.elapsed >= b.cfg.TimeLimit {
		b.finished = true
		b.Release()
	}
	return nil
}

//Kill drops the block, e.g. when the player lowers their guard
func (b *Block) Kill() {
	if b.killed {
		return
	}
	b.killed = true
	b.finished = true
	b.Release()
}

//Release turns the block's emitters off once; later calls do nothing so a
//newer block of the same player is never cleared by accident
func (b *Block) Release() {
	if b.released {
		return
	}
	b.released = true
	if !b.lit {
		return
	}
	for _, f := range b.emitters {
		f.FireOff(b.cfg.Owner, emitter.BlockFlame)
	}
}

func (b *Block) String() string {
	return fmt.Sprintf("p%d %v (%v, t=%d, limit %v)", b.cfg.Owner, b.cfg.Name, b.cfg.Side, b.cfg.Thickness, b.cfg.TimeLimit)
}
