package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/immuno/internal/game"
	"github.com/peterkuimelis/immuno/internal/log"
)

// Server hosts one single-player game per TCP connection.
type Server struct {
	Scenario *game.Scenario
	Rules    game.Rules
	Port     string

	// EventLog receives every game's event log as text. Nil keeps events in memory only.
	EventLog io.Writer
	logMu    sync.Mutex
}

// Run listens on Port and serves games until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. It closes ln when ctx is cancelled and waits for
// running games to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	fmt.Printf("Waiting for players on %s...\n", ln.Addr())

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			if err := s.ServeConn(ctx, conn); err != nil {
				fmt.Printf("Game from %s ended with error: %v\n", conn.RemoteAddr(), err)
			}
		}()
	}
}

// ServeConn plays one game over an established connection: it reads the join message,
// builds the match and runs it to completion.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	gameID := uuid.NewString()

	dec := json.NewDecoder(conn)
	var join ClientMessage
	if err := dec.Decode(&join); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}

	nc := NewNetworkController(conn, dec)
	defer nc.Close()

	if join.Type != MsgJoin {
		_ = nc.send(ServerMessage{Type: MsgError, Error: "expected join message"})
		return fmt.Errorf("game %s: unexpected first message %q", gameID, join.Type)
	}
	deckNumber := join.DeckNumber
	if deckNumber == 0 {
		deckNumber = 1
	}
	deckName, cards, err := s.Scenario.DeckByNumber(deckNumber)
	if err != nil {
		_ = nc.send(ServerMessage{Type: MsgError, Error: err.Error()})
		return fmt.Errorf("game %s: %w", gameID, err)
	}

	seed := join.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rules := s.Rules
	if rules == (game.Rules{}) {
		rules = game.DefaultRules()
	}

	fmt.Printf("Game %s: %s chose %s (%d cards, seed %d)\n", gameID, conn.RemoteAddr(), deckName, len(cards), seed)

	m, err := game.NewMatch(game.MatchConfig{EngineConfig: game.EngineConfig{
		Rules:     rules,
		Deck:      game.NewDeck(cards, rand.New(rand.NewSource(seed)), rules.RecycleDiscards),
		Pathogens: s.Scenario.Pathogens,
		Shop:      s.Scenario.Shop,
		Logger:    s.logger(gameID),
		Seed:      seed,
	}}, nc)
	if err != nil {
		_ = nc.send(ServerMessage{Type: MsgError, Error: err.Error()})
		return fmt.Errorf("game %s: %w", gameID, err)
	}
	if err := nc.SendWelcome(gameID, deckName); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}

	outcome, err := m.Run(ctx)
	if n := nc.Dropped(); n > 0 {
		fmt.Printf("Game %s: dropped %d notifications for a slow client\n", gameID, n)
	}
	if err != nil {
		if errors.Is(err, ErrDisconnected) {
			fmt.Printf("Game %s: player left on turn %d\n", gameID, m.Engine.TurnNumber())
			return nil
		}
		return fmt.Errorf("game %s: %w", gameID, err)
	}

	fmt.Printf("Game %s: %s\n", gameID, m.Engine.Result())
	return nc.SendGameOver(outcome.String(), m.Engine.Result())
}

func (s *Server) logger(gameID string) log.EventLogger {
	if s.EventLog == nil {
		return log.NewMemoryLogger()
	}
	return log.NewTextLogger(&prefixWriter{mu: &s.logMu, w: s.EventLog, prefix: gameID[:8] + " "})
}

// prefixWriter tags each write with a game ID so interleaved logs stay readable.
type prefixWriter struct {
	mu     *sync.Mutex
	w      io.Writer
	prefix string
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.w, p.prefix); err != nil {
		return 0, err
	}
	return p.w.Write(b)
}

// PlaySolo runs a game in-process: the server side and the terminal REPL talk over a pipe.
func (s *Server) PlaySolo(ctx context.Context, deckNumber int, seed int64) error {
	clientConn, serverConn := net.Pipe()

	errCh := make(chan error, 1)
	go func() {
		defer serverConn.Close()
		errCh <- s.ServeConn(ctx, serverConn)
	}()

	client := NewClient(clientConn)
	replErr := client.Play(ctx, deckNumber, seed)
	clientConn.Close()
	if err := <-errCh; err != nil {
		return err
	}
	return replErr
}
