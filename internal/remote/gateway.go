// Package remote exposes the text command surface over a websocket: a
// client sends utterances as JSON messages and receives every outbound
// assistant message back on the same connection.
package remote

import (
	"net/http"
	"sync"

	log "log/slog"

	"github.com/gorilla/websocket"
)

// Message is the wire format in both directions.
type Message struct {
	From    string `json:"from"`
	Kind    string `json:"kind"` // "say" inbound, "reply" outbound
	Content string `json:"content"`
}

// Gateway serves a single remote text client. The design is single-user:
// a new connection replaces the previous one.
type Gateway struct {
	submit   func(string)
	upgrader websocket.Upgrader

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewGateway creates a gateway that feeds inbound utterances to submit.
func NewGateway(submit func(string)) *Gateway {
	return &Gateway{submit: submit}
}

// ListenAndServe blocks serving /ws on addr.
func (g *Gateway) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handle)
	log.Info("remote gateway listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

func (g *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	g.mu.Lock()
	if g.conn != nil {
		g.conn.Close()
	}
	g.conn = conn
	g.mu.Unlock()

	log.Info("remote client connected", "addr", conn.RemoteAddr())

	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			break
		}
		if m.Kind == "say" && m.Content != "" {
			g.submit(m.Content)
		}
	}

	g.mu.Lock()
	if g.conn == conn {
		g.conn = nil
	}
	g.mu.Unlock()
	conn.Close()
	log.Info("remote client disconnected")
}

// Reply forwards one outbound message to the connected client, if any.
func (g *Gateway) Reply(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return
	}
	m := Message{From: "forte", Kind: "reply", Content: text}
	if err := g.conn.WriteJSON(m); err != nil {
		log.Debug("remote reply failed", "err", err)
	}
}
