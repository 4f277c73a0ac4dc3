package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/immuno/internal/game"
	immunonet "github.com/peterkuimelis/immuno/internal/net"
)

//go:embed static
var staticFiles embed.FS

// Server is the immuno web UI server. Browsers play through a WebSocket that is
// proxied to the TCP game server at GameAddr.
type Server struct {
	scenario *game.Scenario
	gameAddr string
	mux      *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(sc *game.Scenario, gameAddr string) (*Server, error) {
	if sc == nil {
		return nil, errors.New("web: no scenario")
	}
	s := &Server{
		scenario: sc,
		gameAddr: gameAddr,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/pathogens", s.handlePathogens)
	s.mux.HandleFunc("GET /api/shop", s.handleShop)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, catalogCards())
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, deckInfos(s.scenario))
}

func (s *Server) handlePathogens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, pathogenInfos(s.scenario))
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	items := make([]CardInfo, 0, len(s.scenario.Shop))
	for _, c := range s.scenario.Shop {
		items = append(items, newCardInfo(c))
	}
	writeJSON(w, items)
}

// connectMessage is the browser's first WebSocket message.
type connectMessage struct {
	Type       string `json:"type"`
	DeckNumber int    `json:"deck_number"`
	Seed       int64  `json:"seed"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg connectMessage
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to game server
	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", s.gameAddr)
	if err != nil {
		errMsg, _ := json.Marshal(immunonet.ServerMessage{
			Type:  immunonet.MsgError,
			Error: fmt.Sprintf("Could not connect to game server at %s: %v", s.gameAddr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP
	if err := json.NewEncoder(tcpConn).Encode(immunonet.ClientMessage{
		Type:       immunonet.MsgJoin,
		DeckNumber: connectMsg.DeckNumber,
		Seed:       connectMsg.Seed,
	}); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		defer cancel()
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				tcpConn.Close()
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
