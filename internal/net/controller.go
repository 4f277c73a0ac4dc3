package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/peterkuimelis/immuno/internal/game"
	"github.com/peterkuimelis/immuno/internal/log"
)

// ErrDisconnected is returned when the client goes away mid-game.
var ErrDisconnected = errors.New("client disconnected")

// Outgoing queue bounds.
const (
	outboxSize   = 256
	writeTimeout = 5 * time.Second
)

// NetworkController implements game.PlayerController over a TCP connection.
// A reader goroutine decodes client messages so that a prompt can be abandoned
// when its context expires. A writer goroutine drains an outbox so that
// notifications never block the engine on a slow client.
type NetworkController struct {
	conn net.Conn
	mu   sync.Mutex // guards seq and closed

	incoming chan ClientMessage
	done     chan struct{}
	once     sync.Once
	readErr  error // set before incoming is closed
	seq      int
	closed   bool

	outbox     chan ServerMessage
	broken     chan struct{} // closed when a write fails
	writerDone chan struct{}
	writeErr   error // set before broken is closed
	dropped    atomic.Int64
}

// NewNetworkController starts reading client messages from dec. Pass the decoder that read
// the join message so no buffered input is lost; nil creates a fresh one.
func NewNetworkController(conn net.Conn, dec *json.Decoder) *NetworkController {
	if dec == nil {
		dec = json.NewDecoder(conn)
	}
	nc := &NetworkController{
		conn:       conn,
		incoming:   make(chan ClientMessage, 8),
		done:       make(chan struct{}),
		outbox:     make(chan ServerMessage, outboxSize),
		broken:     make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	go nc.readLoop(dec)
	go nc.writeLoop()
	return nc
}

func (nc *NetworkController) readLoop(dec *json.Decoder) {
	defer close(nc.incoming)
	for {
		var msg ClientMessage
		if err := dec.Decode(&msg); err != nil {
			nc.readErr = err
			return
		}
		select {
		case nc.incoming <- msg:
		case <-nc.done:
			return
		}
	}
}

func (nc *NetworkController) writeLoop() {
	defer close(nc.writerDone)
	enc := json.NewEncoder(nc.conn)
	for msg := range nc.outbox {
		if err := enc.Encode(msg); err != nil {
			nc.writeErr = err
			close(nc.broken)
			return
		}
	}
}

// Close stops the reader and flushes queued messages, giving up after writeTimeout.
// It does not close the connection.
func (nc *NetworkController) Close() {
	nc.once.Do(func() {
		close(nc.done)
		nc.mu.Lock()
		nc.closed = true
		close(nc.outbox)
		nc.mu.Unlock()

		select {
		case <-nc.writerDone:
		case <-time.After(writeTimeout):
			_ = nc.conn.SetWriteDeadline(time.Now())
			<-nc.writerDone
		}
	})
}

// Dropped reports how many notifications were discarded because the outbox was full.
func (nc *NetworkController) Dropped() int64 {
	return nc.dropped.Load()
}

// enqueue waits for room in the outbox.
func (nc *NetworkController) enqueue(ctx context.Context, msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if nc.closed {
		return ErrDisconnected
	}
	select {
	case nc.outbox <- msg:
		return nil
	case <-nc.broken:
		return fmt.Errorf("%w: %v", ErrDisconnected, nc.writeErr)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (nc *NetworkController) send(msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return nc.enqueue(ctx, msg)
}

// ChooseAction sends the numbered actions with the current state and waits for an answer
// carrying the same sequence number.
func (nc *NetworkController) ChooseAction(ctx context.Context, e *game.Engine, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	nc.seq++
	seq := nc.seq
	nc.mu.Unlock()
	err := nc.enqueue(ctx, ServerMessage{
		Type:    MsgChooseAction,
		Seq:     seq,
		Actions: NewActionViews(actions),
		State:   BuildStateView(e),
	})
	if err != nil {
		if errors.Is(err, ErrDisconnected) {
			return game.Action{}, fmt.Errorf("send choose_action: %w", err)
		}
		return game.Action{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return game.Action{}, ctx.Err()
		case msg, ok := <-nc.incoming:
			if !ok {
				if nc.readErr != nil && !errors.Is(nc.readErr, io.EOF) {
					return game.Action{}, fmt.Errorf("%w: %v", ErrDisconnected, nc.readErr)
				}
				return game.Action{}, ErrDisconnected
			}
			if msg.Type != MsgAction || msg.Seq != seq {
				continue // answer to an expired prompt
			}
			if msg.Index < 0 || msg.Index >= len(actions) {
				if err := nc.enqueue(ctx, ServerMessage{Type: MsgError, Error: fmt.Sprintf("invalid choice %d", msg.Index)}); err != nil {
					return game.Action{}, err
				}
				continue
			}
			return actions[msg.Index], nil
		}
	}
}

// Notify queues a game event for the client without waiting. Events that do not fit
// in the outbox are dropped and counted.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	ev := NewEventView(event)
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if nc.closed {
		return ErrDisconnected
	}
	select {
	case nc.outbox <- ServerMessage{Type: MsgNotify, Event: &ev}:
		return nil
	case <-nc.broken:
		return ErrDisconnected
	default:
		nc.dropped.Add(1)
		return nil
	}
}

// SendWelcome confirms the join.
func (nc *NetworkController) SendWelcome(gameID, deck string) error {
	return nc.send(ServerMessage{Type: MsgWelcome, GameID: gameID, Deck: deck})
}

// SendGameOver sends the final result to the client.
func (nc *NetworkController) SendGameOver(outcome, result string) error {
	return nc.send(ServerMessage{Type: MsgGameOver, Outcome: outcome, Result: result})
}
