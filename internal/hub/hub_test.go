package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/poller"
	"github.com/zonera/scoreboard-service/internal/view"
)

func dial(t *testing.T, srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestPublishReachesConnectedClients(t *testing.T) {
	rec := metrics.NewRecorder()
	h := New(nil, rec)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, rec.Cycles().WSClients)

	done := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	h.Publish(context.Background(), poller.Cycle{
		Seq:         2,
		Sources:     view.Sources{Custom: []matches.Match{{ID: "a"}, {ID: "b"}}},
		Failed:      []matches.Source{matches.SourceAPISports},
		CompletedAt: done,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageTypeRefresh, msg.Type)
	assert.Equal(t, int64(2), msg.Seq)
	assert.Equal(t, 2, msg.Count)
	assert.True(t, msg.GeneratedAt.Equal(done))
	assert.Equal(t, []string{"apisports"}, msg.Failed)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	rec := metrics.NewRecorder()
	h := New(nil, rec)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Count() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, rec.Cycles().WSClients)
}

func TestCloseDisconnectsAndRejects(t *testing.T) {
	h := New(nil, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, h.Close())
	assert.Equal(t, 0, h.Count())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	late, _, err := dial(t, srv, "")
	require.NoError(t, err)
	defer late.Close()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Equal(t, 0, h.Count())
}

func TestOriginAllowList(t *testing.T) {
	h := New(nil, nil, "https://scores.example")
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	_, resp, err := dial(t, srv, "https://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dial(t, srv, "https://scores.example")
	require.NoError(t, err)
	conn.Close()
}

func TestBroadcastDropsSlowClients(t *testing.T) {
	h := New(nil, nil)
	c := &client{id: "slow", send: make(chan Message, 1), hub: h}
	h.clients[c] = struct{}{}

	assert.Equal(t, 1, h.Broadcast(Message{Type: MessageTypeRefresh}))
	assert.Equal(t, 0, h.Broadcast(Message{Type: MessageTypeRefresh}))
	assert.Equal(t, 0, h.Count())
	assert.False(t, c.trySend(Message{}))
}
