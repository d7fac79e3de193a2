package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vitals-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newStreamServer(t *testing.T) (*ws.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	r := gin.New()
	r.GET("/api/readings/stream", NewStreamHandler(hub, []string{"http://localhost:5173"}).HandleReadingStream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/readings/stream" + query
}

func TestReadingStreamDeliversOwnerEvents(t *testing.T) {
	hub, srv := newStreamServer(t)

	a1, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?userId=alice"), nil)
	require.NoError(t, err)
	defer a1.Close()
	a2, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?userId=alice"), nil)
	require.NoError(t, err)
	defer a2.Close()
	b, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?userId=bob"), nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		return hub.Count("alice") == 2 && hub.Count("bob") == 1
	}, time.Second, 10*time.Millisecond)
	require.ElementsMatch(t, []string{"alice", "bob"}, hub.Owners())

	require.Equal(t, 2, hub.Broadcast("alice", []byte(`{"type":"reading.created"}`)))

	for _, conn := range []*websocket.Conn{a1, a2} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		require.JSONEq(t, `{"type":"reading.created"}`, string(msg))
	}

	_ = b.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	_, _, err = b.ReadMessage()
	require.Error(t, err)
}

func TestReadingStreamUnregistersOnClose(t *testing.T) {
	hub, srv := newStreamServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?userId=alice"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Count("alice") == 1 }, time.Second, 10*time.Millisecond)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	require.Eventually(t, func() bool { return hub.Count("alice") == 0 }, time.Second, 10*time.Millisecond)
	require.Empty(t, hub.Owners())
	require.Zero(t, hub.Broadcast("alice", []byte("{}")))
}

func TestReadingStreamRejects(t *testing.T) {
	_, srv := newStreamServer(t)

	resp, err := http.Get(srv.URL + "/api/readings/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "?userId=alice"), header)
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
