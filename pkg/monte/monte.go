//Package monte plays many matches between two random button mashers and
//summarises how they went. It is used to tune move profiles: a move that
//wins everything or never lands shows up quickly in the distribution.
package monte

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/srliao/streetfire/pkg/game"
	"github.com/srliao/streetfire/pkg/gesture"
)

type Config struct {
	//Iterations is the number of matches to play
	Iterations int
	Workers    int
	//BinSize is the width of a histogram bin in seconds of match time
	BinSize int64
	//MeanGap is the average time between two moves of the same player
	MeanGap time.Duration
	//Limit caps the simulated length of a match
	Limit time.Duration
	//Seed makes a run repeatable; 0 seeds from the clock
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Iterations: 1000,
		Workers:    8,
		BinSize:    5,
		MeanGap:    700 * time.Millisecond,
		Limit:      10 * time.Minute,
	}
}

//weights for picking a move; releases are scheduled with their block
var weights = [gesture.BlockRelease]float64{
	gesture.LeftJab:    30,
	gesture.RightJab:   30,
	gesture.LeftHook:   12,
	gesture.RightHook:  12,
	gesture.Hadouken:   5,
	gesture.SonicBoom:  5,
	gesture.LeftBlock:  10,
	gesture.RightBlock: 10,
}

type Simulator struct {
	Log *zap.SugaredLogger
	p   game.Profile
	cfg Config
}

func New(p game.Profile, cfg Config, log *zap.SugaredLogger) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if cfg.Iterations <= 0 || cfg.Workers <= 0 || cfg.BinSize <= 0 {
		return nil, fmt.Errorf("iterations, workers and bin size must be positive: %+v", cfg)
	}
	if cfg.MeanGap <= 0 || cfg.Limit <= 0 {
		return nil, fmt.Errorf("mean gap and limit must be positive: %+v", cfg)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	//matches are played without delays; nobody is watching
	p.Script = ""
	p.Match.RoundBeginDelay = 0
	p.Match.RoundEndDelay = 0
	return &Simulator{Log: log, p: p, cfg: cfg}, nil
}

type SimResult struct {
	N    int
	Wins [2]int
	//Unfinished matches ran into the limit, usually through drawn rounds.
	//Neither they nor aborted ones count towards the stats below.
	Unfinished int
	Aborted    int
	//histogram of match durations in seconds
	Hist     []float64
	BinStart int64
	Min      float64
	Max      float64
	Mean     float64
	SD       float64
	//per player averages
	Hits   [2]float64
	Blocks [2]float64
	Damage [2]float64
}

type outcome struct {
	res game.MatchResult
	err error
}

//Run plays every match and aggregates the results
func (s *Simulator) Run() SimResult {
	n := s.cfg.Iterations
	b := s.cfg.BinSize
	r := SimResult{N: n}

	s.Log.Debugw("starting match sim", "n", n, "b", b, "w", s.cfg.Workers, "seed", s.cfg.Seed)

	var progress, sum, ss float64
	var data []float64
	r.Min = math.MaxFloat64
	r.Max = -1

	resp := make(chan outcome, n)
	req := make(chan int)
	done := make(chan bool)
	for i := 0; i < s.cfg.Workers; i++ {
		go s.worker(resp, req, done)
	}

	//hand out match numbers whenever a worker is free
	go func() {
		for i := 0; i < n; i++ {
			select {
			case req <- i:
			case <-done:
				return
			}
		}
	}()

	for count := n; count > 0; count-- {
		o := <-resp
		switch {
		case errors.Is(o.err, game.ErrTimeLimit):
			r.Unfinished++
		case o.err != nil:
			s.Log.Warnw("match failed", "err", o.err)
			r.Aborted++
		default:
			r.Wins[o.res.Winner-1]++
			for i := 0; i < 2; i++ {
				r.Hits[i] += float64(o.res.Hits[i])
				r.Blocks[i] += float64(o.res.Blocks[i])
				r.Damage[i] += float64(o.res.Damage[i])
			}
			val := o.res.Duration.Seconds()
			data = append(data, val)
			sum += val
			if val < r.Min {
				r.Min = val
			}
			if val > r.Max {
				r.Max = val
			}
		}

		if frac := 1 - float64(count-1)/float64(n); frac >= progress+0.1 {
			progress = frac
			s.Log.Infof("progress: %.0f%%", 100*progress)
		}
	}
	close(done)

	if len(data) == 0 {
		r.Min = 0
		r.Max = 0
		return r
	}
	played := float64(len(data))
	r.Mean = sum / played
	for i := 0; i < 2; i++ {
		r.Hits[i] /= played
		r.Blocks[i] /= played
		r.Damage[i] /= played
	}
	r.BinStart = int64(r.Min/float64(b)) * b
	binMax := (int64(r.Max/float64(b)) + 1) * b
	numBin := ((binMax - r.BinStart) / b) + 1

	r.Hist = make([]float64, numBin)
	for _, v := range data {
		ss += (v - r.Mean) * (v - r.Mean)
		steps := int64((v - float64(r.BinStart)) / float64(b))
		r.Hist[steps]++
	}
	r.SD = math.Sqrt(ss / played)

	return r
}

func (s *Simulator) worker(resp chan outcome, req chan int, done chan bool) {
	for {
		select {
		case i := <-req:
			//seeded per match so the result does not depend on which worker ran it
			rand := rand.New(rand.NewSource(s.cfg.Seed + int64(i)))
			resp <- s.play(rand)
		case <-done:
			return
		}
	}
}

func (s *Simulator) play(rand *rand.Rand) outcome {
	m, err := game.NewMatch(s.p, nil, nil)
	if err != nil {
		return outcome{err: err}
	}
	m.Script = gesture.NewScript(RandScript(rand, s.p.Match.RoundTime+s.p.Match.SettleTieTime, s.cfg.MeanGap))
	res, err := m.Simulate(s.p.Period(), s.cfg.Limit)
	return outcome{res: res, err: err}
}

//RandScript generates independent move streams for both players covering
//length. Gaps between moves are exponentially distributed around mean and
//every block is released after a random hold.
func RandScript(rand *rand.Rand, length, mean time.Duration) []gesture.Timed {
	var out []gesture.Timed
	for p := 1; p <= 2; p++ {
		var t time.Duration
		for {
			gap := time.Duration(rand.ExpFloat64() * float64(mean))
			if gap < 100*time.Millisecond {
				gap = 100 * time.Millisecond
			}
			t += gap
			if t >= length {
				break
			}
			k := RandKind(rand)
			out = append(out, gesture.Timed{At: t, Move: gesture.Move{Player: p, Kind: k}})
			if k.IsBlock() {
				hold := 500*time.Millisecond + time.Duration(rand.Int63n(int64(1500*time.Millisecond)))
				out = append(out, gesture.Timed{At: t + hold, Move: gesture.Move{Player: p, Kind: gesture.BlockRelease}})
			}
		}
	}
	return out
}

//RandKind picks a move according to weights
func RandKind(rand *rand.Rand) gesture.Kind {
	var total float64
	for _, w := range weights {
		total += w
	}
	pick := rand.Float64() * total
	for i, w := range weights {
		if pick < w {
			return gesture.Kind(i)
		}
		pick -= w
	}
	return gesture.LeftJab
}
