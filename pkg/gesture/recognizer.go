package gesture

import (
	"context"

	"go.uber.org/zap"
)

//SensorFrame is one raw sample from a glove or headset
type SensorFrame struct {
	Player  int        `msgpack:"player"`
	Accel   [3]float64 `msgpack:"accel"`
	Gyro    [3]float64 `msgpack:"gyro"`
	Heading float64    `msgpack:"heading"`
	//Label is set by gloves whose firmware already classified the motion
	Label string `msgpack:"label"`
}

//Recognizer turns raw frames into discrete moves. Implementations are
//stateful and only report a move on a gesture transition.
type Recognizer interface {
	Recognize(f SensorFrame) (Move, bool)
}

//RecognizerFunc adapts a function to the Recognizer interface
type RecognizerFunc func(f SensorFrame) (Move, bool)

func (fn RecognizerFunc) Recognize(f SensorFrame) (Move, bool) {
	return fn(f)
}

//LabelRecognizer trusts frames that carry a firmware label, reporting each
//label once until it changes
type LabelRecognizer struct {
	last [2]string
}

func (l *LabelRecognizer) Recognize(f SensorFrame) (Move, bool) {
	if f.Player != 1 && f.Player != 2 {
		return Move{}, false
	}
	prev := l.last[f.Player-1]
	l.last[f.Player-1] = f.Label
	if f.Label == "" || f.Label == prev {
		return Move{}, false
	}
	k, err := ParseKind(f.Label)
	if err != nil {
		return Move{}, false
	}
	return Move{Player: f.Player, Kind: k}, true
}

//Feed runs a recognizer over a frame stream and posts moves to the mailbox
//until ctx is done or frames is closed. Bad frames are discarded.
func Feed(ctx context.Context, frames <-chan SensorFrame, r Recognizer, mb *Mailbox, log *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			mv, ok := r.Recognize(f)
			if !ok {
				continue
			}
			if err := mb.Push(mv); err != nil {
				log.Warnw("discarding recognized move", "move", mv, "err", err)
			}
		}
	}
}
