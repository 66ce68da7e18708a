package gesture

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

//DefaultDepth is how many undrained moves each player may have pending
const DefaultDepth = 4

//Mailbox decouples gesture producers from the simulation tick. Each player
//has a bounded queue; Push never blocks and, when the queue is full, the
//oldest pending move is discarded so the most recent gestures win.
type Mailbox struct {
	log   *zap.SugaredLogger
	boxes [2]chan Move

	received metric.Int64Counter
	dropped  metric.Int64Counter
}

//NewMailbox creates a mailbox with the given per-player depth
func NewMailbox(depth int, log *zap.SugaredLogger) (*Mailbox, error) {
	if depth <= 0 {
		depth = DefaultDepth
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	m := &Mailbox{
		log:   log,
		boxes: [2]chan Move{make(chan Move, depth), make(chan Move, depth)},
	}

	var err error
	mt := meter()
	m.received, err = mt.Int64Counter(
		"gesture.moves.received",
		metric.WithDescription("Total gesture moves pushed to the mailbox"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating received counter: %w", err)
	}
	m.dropped, err = mt.Int64Counter(
		"gesture.moves.dropped",
		metric.WithDescription("Gesture moves discarded because a newer move displaced them"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	return m, nil
}

//Push enqueues a move without blocking. Invalid moves are rejected.
func (m *Mailbox) Push(mv Move) error {
	if err := mv.Validate(); err != nil {
		return err
	}
	box := m.boxes[mv.Player-1]
	attrs := metric.WithAttributes(attribute.Int("player", mv.Player))
	m.received.Add(context.Background(), 1, attrs)

	for {
		select {
		case box <- mv:
			return nil
		default:
		}
		//full: evict the oldest and retry; the consumer may have drained in between
		select {
		case old := <-box:
			m.dropped.Add(context.Background(), 1, attrs)
			m.log.Debugw("gesture mailbox full, dropping oldest", "player", mv.Player, "dropped", old, "kept", mv)
		default:
		}
	}
}

//Drain returns every pending move, player 1 first, without blocking
func (m *Mailbox) Drain() []Move {
	var out []Move
	for _, box := range m.boxes {
	LOOP:
		for {
			select {
			case mv := <-box:
				out = append(out, mv)
			default:
				break LOOP
			}
		}
	}
	return out
}

//Pending is the number of undrained moves for a player
func (m *Mailbox) Pending(player int) int {
	return len(m.boxes[player-1])
}
