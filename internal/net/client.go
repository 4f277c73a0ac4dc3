package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient wraps an established connection, reading choices from stdin.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// WithIO replaces the terminal streams.
func (c *Client) WithIO(in io.Reader, out io.Writer) *Client {
	c.in = bufio.NewReader(in)
	c.out = out
	return c
}

// Connect dials a server and plays one game with the chosen deck.
func Connect(ctx context.Context, addr string, deckNumber int, seed int64) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	return NewClient(conn).Play(ctx, deckNumber, seed)
}

// Play sends the join message and runs the REPL until the game ends.
func (c *Client) Play(ctx context.Context, deckNumber int, seed int64) error {
	enc := json.NewEncoder(c.conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber, Seed: seed}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	return c.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgWelcome:
			fmt.Fprintf(c.out, "Joined game %s with deck %q\n", msg.GameID, msg.Deck)

		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseAction:
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx, err := c.readChoice(len(msg.Actions))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgAction, Index: idx, Seq: msg.Seq}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case MsgError:
			fmt.Fprintf(c.out, "Server: %s\n", msg.Error)

		case MsgGameOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintf(c.out, "          %s\n", strings.ToUpper(msg.Outcome))
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	if phase == "" {
		phase = "          "
	}
	for len(phase) < 14 {
		phase += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
	if ev.Type == "TimerExpired" {
		fmt.Fprintln(c.out, "(time is up: any answer to the last prompt will be ignored)")
	}
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	for _, p := range sv.Pathogens {
		marker := " "
		if p.Targeted {
			marker = ">"
		}
		fmt.Fprintf(w, "║ %s #%d %-22s %s  ATK %d\n", marker, p.ID, p.Name, hpBar(p.HP, p.MaxHP), p.Attack)
		if len(p.Blocks) > 0 {
			fmt.Fprintf(w, "║      blocks: %s\n", strings.Join(p.Blocks, ", "))
		}
	}
	fmt.Fprintf(w, "║   %d more waiting\n", sv.Remaining)

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	if len(sv.Field) > 0 {
		fmt.Fprintf(w, "║  Field: ")
		for _, f := range sv.Field {
			fmt.Fprintf(w, "[%s] ", f.Name)
		}
		fmt.Fprintln(w)
	}

	you := sv.Player
	fmt.Fprintf(w, "║  YOU %s  DEF %d/%d%%  Tokens: %d  Deck: %d\n",
		hpBar(you.HP, you.MaxHP), you.FlatDefense, you.PercentDefense, you.Tokens, you.DeckCount)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s | Played %d/%d", sv.Turn, sv.Phase, sv.CardsPlayed, sv.CardsPerTurn)
	if sv.TimeLeftMS > 0 {
		turnInfo += fmt.Sprintf(" | %ds left", (sv.TimeLeftMS+999)/1000)
	}
	if you.Boosted {
		turnInfo += " | Boosted"
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for i, cv := range you.Hand {
			name := cv.Name
			if cv.Blocked {
				name += " (blocked)"
			}
			fmt.Fprintf(w, "[%d] %s  ", i+1, name)
		}
		fmt.Fprintln(w)
	}
}

func hpBar(hp, maxHP int) string {
	const width = 10
	filled := 0
	if maxHP > 0 {
		filled = hp * width / maxHP
	}
	filled = max(0, min(filled, width))
	return fmt.Sprintf("[%s%s] %d/%d", strings.Repeat("█", filled), strings.Repeat("·", width-filled), hp, maxHP)
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) readChoice(count int) (int, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= count {
			return n - 1, nil // convert to 0-indexed
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("input closed")
			}
			return 0, fmt.Errorf("read input: %w", err)
		}
		fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
	}
}
