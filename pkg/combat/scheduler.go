package combat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/srliao/streetfire/pkg/emitter"
	"github.com/srliao/streetfire/pkg/gesture"
)

//ErrArcBusy is returned when a player starts an attack on an arc their previous
//attack is still travelling on
var ErrArcBusy = errors.New("player already has an attack on that arc")

//Scheduler owns the live actions of a match. It is driven by a single
//goroutine; nothing in it is safe for concurrent use.
type Scheduler struct {
	Log     *zap.SugaredLogger
	Rig     *emitter.Rig
	Players [2]*Player
	Moves   MoveBook

	//F is the number of ticks run; Elapsed the simulated time
	F       int
	Elapsed time.Duration

	actions []Action

	actionHooks map[ActionHookType][]ActionHookFunc
	hitHooks    []HitHookFunc
	blockHooks  []BlockHookFunc

	hits   metric.Int64Counter
	blocks metric.Int64Counter
}

//NewScheduler takes over the rig's block hook. A nil logger discards output.
func NewScheduler(rig *emitter.Rig, p1, p2 *Player, moves MoveBook, log *zap.SugaredLogger) (*Scheduler, error) {
	if rig == nil {
		return nil, errors.New("scheduler needs a rig")
	}
	if p1 == nil || p2 == nil || p1.Num != 1 || p2.Num != 2 {
		return nil, errors.New("scheduler needs player 1 and player 2")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if moves == nil {
		moves = DefaultMoves()
	}
	s := &Scheduler{
		Log:         log,
		Rig:         rig,
		Players:     [2]*Player{p1, p2},
		Moves:       moves,
		actionHooks: make(map[ActionHookType][]ActionHookFunc),
	}

	var err error
	mt := meter()
	s.hits, err = mt.Int64Counter(
		"combat.hits",
		metric.WithDescription("Attack slots that reached the far end of an arc"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	s.blocks, err = mt.Int64Counter(
		"combat.blocks",
		metric.WithDescription("Attack flames put out by a block"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating blocks counter: %w", err)
	}

	rig.SetBlockHook(s.onBlock)
	return s, nil
}

func (s *Scheduler) Frame() string {
	return strconv.FormatInt(s.Elapsed.Milliseconds(), 10) + "ms|" + strconv.Itoa(s.F)
}

//Player returns player 1 or 2
func (s *Scheduler) Player(num int) *Player {
	return s.Players[num-1]
}

//Live returns a copy of the actions currently in flight
func (s *Scheduler) Live() []Action {
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

//Spawn initializes the action against the rig and schedules it. A block
//replaces the owner's live blocks on the same arc; an attack on an arc the
//owner is already attacking on is refused with ErrArcBusy.
func (s *Scheduler) Spawn(a Action) error {
	switch v := a.(type) {
	case *Attack:
		for _, o := range s.actions {
			if x, ok := o.(*Attack); ok && x.Owner() == v.Owner() && !x.IsFinished() && overlaps(x.Side(), v.Side()) {
				return fmt.Errorf("%v: %w (%v still live)", v.Name(), ErrArcBusy, x.Name())
			}
		}
	case *Block:
		for _, o := range s.actions {
			if x, ok := o.(*Block); ok && x.Owner() == v.Owner() && overlaps(x.Side(), v.Side()) {
				s.Log.Debugf("[%v] %v replaces %v", s.Frame(), v, x)
				x.Kill()
			}
		}
	default:
		invariant(a.Name(), "unknown action type %T", a)
	}
	a.Initialize(s.Rig)
	s.actions = append(s.actions, a)
	s.Log.Debugf("[%v] spawned %v", s.Frame(), a)
	s.executeActionHooks(OnSpawn, a)
	return nil
}

//Handle turns one gesture into scheduler work
func (s *Scheduler) Handle(m gesture.Move) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Kind == gesture.BlockRelease {
		s.ReleaseBlocks(m.Player)
		return nil
	}
	a, err := BuildMove(m.Kind.String(), m.Player, s.Moves)
	if err != nil {
		return err
	}
	return s.Spawn(a)
}

//ReleaseBlocks kills every live block of the player
func (s *Scheduler) ReleaseBlocks(player int) {
	for _, a := range s.actions {
		if b, ok := a.(*Block); ok && b.Owner() == player && !b.IsFinished() {
			s.Log.Debugf("[%v] p%d lowered guard, killing %v", s.Frame(), player, b)
			b.Kill()
		}
	}
}

//Tick handles the drained moves, advances every action and then applies the
//damage of every hit that landed this tick
func (s *Scheduler) Tick(dt time.Duration, moves []gesture.Move) []Hit {
	s.F++
	s.Elapsed += dt

	for _, m := range moves {
		if err := s.Handle(m); err != nil {
			s.Log.Infof("[%v] ignoring %v: %v", s.Frame(), m, err)
		}
	}

	var hits []Hit
	for _, a := range s.actions {
		if a.IsFinished() {
			continue
		}
		hits = append(hits, a.Tick(dt)...)
	}

	next := make([]Action, 0, len(s.actions))
	for _, a := range s.actions {
		if !a.IsFinished() {
			next = append(next, a)
			continue
		}
		a.Release()
		s.Log.Debugf("[%v] %v finished", s.Frame(), a)
		s.executeActionHooks(OnFinish, a)
	}
	s.actions = next

	for _, h := range hits {
		s.Player(h.Victim).DoDamage(h.Damage)
		s.hits.Add(context.Background(), 1, metric.WithAttributes(
			attribute.Int("attacker", h.Attacker),
			attribute.String("move", h.Move),
		))
		s.Log.Debugf("[%v] %v; %v", s.Frame(), h, s.Player(h.Victim))
		s.executeHitHooks(h)
	}
	return hits
}

//KillAll stops every live action and drops it
func (s *Scheduler) KillAll() {
	for _, a := range s.actions {
		a.Kill()
		s.executeActionHooks(OnFinish, a)
	}
	s.actions = nil
}

//Reset kills every action and turns the rig off
func (s *Scheduler) Reset() {
	s.KillAll()
	s.Rig.Reset()
}

func (s *Scheduler) onBlock(f *emitter.FireEmitter, t emitter.Transition) {
	s.blocks.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("victim", t.Extinguished)))
	s.Log.Debugf("[%v] block on %v put out p%d attack", s.Frame(), f, t.Extinguished)
	s.executeBlockHooks(f, t)
}

func overlaps(a, b emitter.Side) bool {
	return a == b || a == emitter.Both || b == emitter.Both
}
