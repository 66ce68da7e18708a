package game

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/srliao/streetfire/internal/script"
	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/emitter"
	"github.com/srliao/streetfire/pkg/gesture"
)

var (
	//ErrMatchAborted wraps the invariant violation that stopped a match
	ErrMatchAborted = errors.New("match aborted")
	//ErrBadState is returned by controls called in a state that does not accept them
	ErrBadState = errors.New("invalid match state")
)

//Match drives one installation through calibration, rounds and the final
//result. Tick is the only method that advances the simulation; the control
//methods (Start, MarkReady, Pause, Resume, Reset) may be called from other
//goroutines.
type Match struct {
	Log     *zap.SugaredLogger
	Profile Profile
	Rig     *emitter.Rig
	Sched   *combat.Scheduler
	Mailbox *gesture.Mailbox
	//Script, when set, is replayed into the mailbox every round
	Script *gesture.Script

	//hooks run with the match locked; they must not call back into the match
	OnMatchOver   func(r MatchResult)
	OnStateChange func(from, to State)

	mu sync.Mutex

	F       int
	Elapsed time.Duration

	state      State
	prior      State
	priorIn    time.Duration
	inState    time.Duration
	roundClock time.Duration
	round      int
	ready      [2]bool
	tieHP      [2]int

	startF       int
	startElapsed time.Duration
	result       MatchResult

	overrun metric.Int64Counter
}

//NewMatch builds the rig, players and scheduler for a profile. A nil mailbox
//gets a default one; a nil logger discards output.
func NewMatch(p Profile, mb *gesture.Mailbox, log *zap.SugaredLogger) (*Match, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var err error
	if mb == nil {
		mb, err = gesture.NewMailbox(gesture.DefaultDepth, log)
		if err != nil {
			return nil, err
		}
	}
	m := &Match{
		Log:     log,
		Profile: p,
		Rig:     emitter.NewRig(nil),
		Mailbox: mb,
	}
	m.Sched, err = combat.NewScheduler(m.Rig, combat.NewPlayer(1), combat.NewPlayer(2), p.Moves, log)
	if err != nil {
		return nil, err
	}
	if p.Script != "" {
		m.Script, err = script.Load(p.Label, p.Script)
		if err != nil {
			return nil, err
		}
	}
	m.overrun, err = meter().Int64Counter(
		"game.tick.overrun",
		metric.WithDescription("Ticks that arrived later than twice the tick period"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating overrun counter: %w", err)
	}

	m.Sched.AddHitHook(func(h combat.Hit) bool {
		m.result.Hits[h.Attacker-1]++
		return false
	}, "match-hits")
	m.Sched.AddBlockHook(func(f *emitter.FireEmitter, t emitter.Transition) bool {
		m.result.Blocks[combat.Opponent(t.Extinguished)-1]++
		return false
	}, "match-blocks")
	return m, nil
}

func (m *Match) Frame() string {
	return strconv.FormatInt(m.Elapsed.Milliseconds(), 10) + "ms|" + strconv.Itoa(m.F)
}

func (m *Match) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Match) Round() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round
}

//Result is the running tally; it is final once the match is over
func (m *Match) Result() MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.result
	r.Rounds = append([]RoundResult(nil), m.result.Rounds...)
	return r
}

//Start begins calibration; only valid from Idle
func (m *Match) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return fmt.Errorf("%w: cannot start from %v", ErrBadState, m.state)
	}
	for _, p := range m.Sched.Players {
		p.RoundWins = 0
		p.DamageTaken = 0
		p.HitsTaken = 0
		p.ResetForRound()
	}
	m.round = 0
	m.ready = [2]bool{}
	m.result = MatchResult{Label: m.Profile.Label}
	m.startF = m.F
	m.startElapsed = m.Elapsed
	m.setState(Calibration)
	return nil
}

//MarkReady records that a player's gloves are calibrated
func (m *Match) MarkReady(player int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if player != 1 && player != 2 {
		return fmt.Errorf("invalid player %d", player)
	}
	if m.state != Calibration {
		return fmt.Errorf("%w: not calibrating (%v)", ErrBadState, m.state)
	}
	m.ready[player-1] = true
	m.Log.Infof("[%v] p%d ready", m.Frame(), player)
	return nil
}

//Pause freezes a running match. Every in-flight action is dropped and the
//emitters are turned off.
func (m *Match) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Running() {
		return fmt.Errorf("%w: cannot pause from %v", ErrBadState, m.state)
	}
	m.prior = m.state
	m.priorIn = m.inState
	m.Sched.Reset()
	m.setState(Paused)
	return nil
}

//Resume returns to the state the match was paused in
func (m *Match) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Paused {
		return fmt.Errorf("%w: not paused (%v)", ErrBadState, m.state)
	}
	m.setState(m.prior)
	m.inState = m.priorIn
	return nil
}

//Reset abandons whatever is going on and returns to Idle
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sched.Reset()
	if m.state != Idle {
		m.setState(Idle)
	}
}

//Tick advances the match by dt. Invariant violations raised by the emitters
//or actions stop the match: every emitter is forced off, the match returns to
//Idle and the returned error wraps ErrMatchAborted.
func (m *Match) Tick(dt time.Duration) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var cause error
		switch v := r.(type) {
		case *emitter.InvariantError:
			cause = v
		case *combat.InvariantError:
			cause = v
		default:
			panic(r)
		}
		m.abort(cause)
		err = fmt.Errorf("%w: %w", ErrMatchAborted, cause)
	}()

	m.F++
	m.Elapsed += dt
	if m.state != Paused {
		m.inState += dt
	}

	switch m.state {
	case Idle, Paused, MatchOver:
		m.discard()
	case Calibration:
		m.discard()
		if m.ready[0] && m.ready[1] {
			m.beginRound()
		} else if m.inState >= m.Profile.Match.CalibrationTimeout {
			m.Log.Warnf("[%v] calibration timed out (ready %v), starting anyway", m.Frame(), m.ready)
			m.beginRound()
		}
	case RoundBegin:
		m.discard()
		if m.inState >= m.Profile.Match.RoundBeginDelay {
			m.setState(RoundInPlay)
		}
	case RoundInPlay:
		m.play(dt)
		m.checkRound()
	case SettleTie:
		m.play(dt)
		m.checkTie()
	case RoundEnded:
		m.discard()
		if m.inState < m.Profile.Match.RoundEndDelay {
			break
		}
		if w := m.matchWinner(); w != 0 {
			m.finish(w)
		} else {
			m.beginRound()
		}
	}
	return nil
}

func (m *Match) play(dt time.Duration) {
	m.roundClock += dt
	if m.Script != nil {
		for _, mv := range m.Script.Due(m.roundClock) {
			if err := m.Mailbox.Push(mv); err != nil {
				m.Log.Warnf("[%v] script move %v rejected: %v", m.Frame(), mv, err)
			}
		}
	}
	m.Sched.Tick(dt, m.Mailbox.Drain())
}

func (m *Match) checkRound() {
	p1, p2 := m.Sched.Player(1), m.Sched.Player(2)
	switch {
	case p1.KnockedOut() && p2.KnockedOut():
		m.endRound(0, DoubleKnockOut)
	case p1.KnockedOut():
		m.endRound(2, KnockOut)
	case p2.KnockedOut():
		m.endRound(1, KnockOut)
	case m.inState >= m.Profile.Match.RoundTime:
		switch {
		case p1.HP > p2.HP:
			m.endRound(1, TimeOut)
		case p2.HP > p1.HP:
			m.endRound(2, TimeOut)
		default:
			m.tieHP = [2]int{p1.HP, p2.HP}
			m.setState(SettleTie)
		}
	}
}

//checkTie settles a drawn round: the first player to lose health loses it
func (m *Match) checkTie() {
	d1 := m.Sched.Player(1).HP < m.tieHP[0]
	d2 := m.Sched.Player(2).HP < m.tieHP[1]
	switch {
	case d1 && d2:
		m.endRound(0, Draw)
	case d1:
		m.endRound(2, SuddenDeath)
	case d2:
		m.endRound(1, SuddenDeath)
	case m.inState >= m.Profile.Match.SettleTieTime:
		m.endRound(0, Draw)
	}
}

func (m *Match) beginRound() {
	m.round++
	m.Sched.Reset()
	for _, p := range m.Sched.Players {
		p.ResetForRound()
	}
	m.roundClock = 0
	if m.Script != nil {
		m.Script.Rewind()
	}
	m.discard()
	m.Log.Infof("[%v] round %d", m.Frame(), m.round)
	m.setState(RoundBegin)
}

func (m *Match) endRound(winner int, reason EndReason) {
	m.Sched.Reset()
	if winner != 0 {
		m.Sched.Player(winner).RoundWins++
	}
	rr := RoundResult{
		Round:    m.round,
		Winner:   winner,
		Reason:   reason,
		HP:       [2]int{m.Sched.Player(1).HP, m.Sched.Player(2).HP},
		Duration: m.roundClock,
	}
	m.result.Rounds = append(m.result.Rounds, rr)
	m.Log.Infof("[%v] %v", m.Frame(), rr)
	m.setState(RoundEnded)
}

func (m *Match) matchWinner() int {
	for _, p := range m.Sched.Players {
		if p.RoundWins >= m.Profile.Match.RoundsToWin {
			return p.Num
		}
	}
	return 0
}

func (m *Match) finish(winner int) {
	m.result.Winner = winner
	for i, p := range m.Sched.Players {
		m.result.Damage[i] = p.DamageTaken
	}
	m.result.Duration = m.Elapsed - m.startElapsed
	m.result.Ticks = m.F - m.startF
	m.setState(MatchOver)
	m.Log.Infof("[%v] %v", m.Frame(), m.result)
	if m.OnMatchOver != nil {
		r := m.result
		r.Rounds = append([]RoundResult(nil), m.result.Rounds...)
		m.OnMatchOver(r)
	}
}

func (m *Match) abort(cause error) {
	m.Log.Errorf("[%v] aborting match in %v: %v", m.Frame(), m.state, cause)
	m.Log.Debugf("[%v] rig at abort: left %v right %v", m.Frame(), m.Rig.States(emitter.Left), m.Rig.States(emitter.Right))
	m.Rig.Reset()
	m.Sched.KillAll()
	m.Rig.Reset()
	m.setState(Idle)
}

//discard drops gestures that arrive while nobody is fighting
func (m *Match) discard() {
	if moves := m.Mailbox.Drain(); len(moves) > 0 {
		m.Log.Debugf("[%v] discarding %v in %v", m.Frame(), moves, m.state)
	}
}

func (m *Match) setState(to State) {
	from := m.state
	m.state = to
	m.inState = 0
	m.Log.Infof("[%v] %v -> %v", m.Frame(), from, to)
	if m.OnStateChange != nil {
		m.OnStateChange(from, to)
	}
}
