package remote

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialGateway(t *testing.T, g *Gateway) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInboundSayReachesSubmit(t *testing.T) {
	got := make(chan string, 1)
	g := NewGateway(func(text string) { got <- text })
	conn := dialGateway(t, g)

	require.NoError(t, conn.WriteJSON(Message{From: "phone", Kind: "say", Content: "hello"}))

	select {
	case text := <-got:
		assert.Equal(t, "hello", text)
	case <-time.After(2 * time.Second):
		t.Fatal("utterance never reached submit")
	}
}

func TestNonSayMessagesIgnored(t *testing.T) {
	got := make(chan string, 1)
	g := NewGateway(func(text string) { got <- text })
	conn := dialGateway(t, g)

	require.NoError(t, conn.WriteJSON(Message{Kind: "ping", Content: "x"}))
	require.NoError(t, conn.WriteJSON(Message{Kind: "say", Content: ""}))
	require.NoError(t, conn.WriteJSON(Message{Kind: "say", Content: "real"}))

	select {
	case text := <-got:
		assert.Equal(t, "real", text)
	case <-time.After(2 * time.Second):
		t.Fatal("utterance never reached submit")
	}
}

func TestReplyReachesClient(t *testing.T) {
	g := NewGateway(func(string) {})
	conn := dialGateway(t, g)

	// Wait for the server side to register the connection.
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.conn != nil
	}, 2*time.Second, 10*time.Millisecond)

	g.Reply("Hello!")

	var m Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "forte", m.From)
	assert.Equal(t, "reply", m.Kind)
	assert.Equal(t, "Hello!", m.Content)
}

func TestReplyWithoutClientIsNoop(t *testing.T) {
	g := NewGateway(func(string) {})
	g.Reply("nobody listening")
}
