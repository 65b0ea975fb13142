package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/signals" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcastsFilteredResults(t *testing.T) {
	hub := NewHub(nil)
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	all := dial(t, srv, "")
	xrpOnly := dial(t, srv, "?symbols=xrpusdt")
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, hub.HandleResult(ctx, &models.AnalysisResult{ID: "1", Symbol: "BTCUSDT", CurrentPrice: 1}))
	require.NoError(t, hub.HandleResult(ctx, &models.AnalysisResult{ID: "2", Symbol: "XRPUSDT", CurrentPrice: 1}))

	read := func(conn *websocket.Conn) models.AnalysisResult {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, b, err := conn.ReadMessage()
		require.NoError(t, err)
		var r models.AnalysisResult
		require.NoError(t, json.Unmarshal(b, &r))
		return r
	}

	assert.Equal(t, "1", read(all).ID)
	assert.Equal(t, "2", read(all).ID)
	assert.Equal(t, "2", read(xrpOnly).ID)
}

func TestHubSubscribeMessage(t *testing.T) {
	c := &client{symbols: map[string]bool{}}
	assert.True(t, c.wants("ANY"))

	c.apply(Message{Type: "subscribe", Symbols: []string{"solusdt"}})
	assert.True(t, c.wants("SOLUSDT"))
	assert.False(t, c.wants("XRPUSDT"))

	c.apply(Message{Type: "unsubscribe", Symbols: []string{"SOLUSDT"}})
	assert.True(t, c.wants("XRPUSDT"))
}

func TestHubDropsOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
