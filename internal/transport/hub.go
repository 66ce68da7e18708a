package transport

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/srliao/streetfire/pkg/game"
	"github.com/srliao/streetfire/pkg/gesture"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	readLimit  = 1 << 16
	sendDepth  = 16
	//raw frames arrive far faster than moves; a full queue sheds the newest
	sensorDepth = 256
)

//Frame is broadcast to every client after each tick
type Frame struct {
	Tick    int    `msgpack:"tick"`
	State   string `msgpack:"state"`
	Round   int    `msgpack:"round"`
	ClockMS int64  `msgpack:"clock_ms"`
	Packet  []byte `msgpack:"packet"`
	HP      [2]int `msgpack:"hp"`
	Wins    [2]int `msgpack:"wins"`
}

func NewFrame(s game.Status) Frame {
	return Frame{
		Tick:    s.Tick,
		State:   s.State.String(),
		Round:   s.Round,
		ClockMS: s.RoundClock.Milliseconds(),
		Packet:  EncodePacket(s.Rig, s.HP),
		HP:      s.HP,
		Wins:    s.Wins,
	}
}

//MoveMessage is what gloves (or a console) send: a move name as used in
//scripts, or "ready" once a player's gloves are calibrated
type MoveMessage struct {
	Player int    `msgpack:"player"`
	Kind   string `msgpack:"kind"`
}

//ReadyKind marks a player as calibrated instead of making a move
const ReadyKind = "ready"

//Hub accepts websocket clients on /ws, pushes their moves into the mailbox
//and broadcasts frames to all of them. Gloves without their own classifier
//stream raw SensorFrames on /sensor instead; those are queued on Frames for
//a recognizer.
type Hub struct {
	Log *zap.SugaredLogger
	//OnReady is called when a client reports a player ready
	OnReady func(player int) error

	mb       *gesture.Mailbox
	frames   chan gesture.SensorFrame
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(mb *gesture.Mailbox, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		Log:    log,
		mb:     mb,
		frames: make(chan gesture.SensorFrame, sensorDepth),
		upgrader: websocket.Upgrader{
			//the installation network is closed; any origin may connect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

//Handler serves the websocket endpoints
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serve(h.handle))
	mux.HandleFunc("/sensor", h.serve(h.handleSensor))
	return mux
}

//Frames is the queue of raw sensor frames received on /sensor
func (h *Hub) Frames() <-chan gesture.SensorFrame {
	return h.frames
}

//Clients is the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

//Broadcast encodes the status once and queues it for every client. A client
//that cannot keep up misses frames rather than slowing the tick loop.
func (h *Hub) Broadcast(s game.Status) error {
	b, err := msgpack.Marshal(NewFrame(s))
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.Log.Debugw("client too slow, dropping frame", "remote", c.conn.RemoteAddr(), "tick", s.Tick)
		}
	}
	return nil
}

//Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) serve(handle func([]byte) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.Log.Warnw("websocket upgrade failed", "err", err)
			return
		}
		c := &client{conn: conn, send: make(chan []byte, sendDepth)}
		h.mu.Lock()
		h.clients[c] = struct{}{}
		h.mu.Unlock()
		h.Log.Infow("client connected", "remote", conn.RemoteAddr(), "path", r.URL.Path)

		go h.writePump(c)
		h.readPump(c, handle)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) readPump(c *client, handle func([]byte) error) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.Log.Infow("client disconnected", "remote", c.conn.RemoteAddr())
	}()
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Warnw("read failed", "remote", c.conn.RemoteAddr(), "err", err)
			}
			return
		}
		if err := handle(msg); err != nil {
			h.Log.Warnw("dropping message", "remote", c.conn.RemoteAddr(), "err", err)
		}
	}
}

func (h *Hub) handle(msg []byte) error {
	var m MoveMessage
	if err := msgpack.Unmarshal(msg, &m); err != nil {
		return fmt.Errorf("decoding move: %w", err)
	}
	if m.Kind == ReadyKind {
		if h.OnReady == nil {
			return nil
		}
		return h.OnReady(m.Player)
	}
	k, err := gesture.ParseKind(m.Kind)
	if err != nil {
		return err
	}
	return h.mb.Push(gesture.Move{Player: m.Player, Kind: k})
}

func (h *Hub) handleSensor(msg []byte) error {
	var f gesture.SensorFrame
	if err := msgpack.Unmarshal(msg, &f); err != nil {
		return fmt.Errorf("decoding sensor frame: %w", err)
	}
	select {
	case h.frames <- f:
	default:
		h.Log.Debugw("sensor queue full, dropping frame", "player", f.Player)
	}
	return nil
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
