package chat

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bsu_chat_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func writeEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(outEnvelope{Event: event, Data: data}))
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env.Event, env.Data
}

func TestWebsocketGateway_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	r.GET("/ws", f.server.ServeWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	alice := dialWS(t, srv)
	bob := dialWS(t, srv)

	for i, conn := range []*websocket.Conn{alice, bob} {
		writeEvent(t, conn, constants.EventAuthenticate, i+1)
		ev, data := readEvent(t, conn)
		require.Equal(t, constants.EventAuthenticated, ev)
		assert.JSONEq(t, `{"success":true}`, string(data))

		writeEvent(t, conn, constants.EventJoinFaculty, testRooms[0])
		ev, data = readEvent(t, conn)
		require.Equal(t, constants.EventLoadMessages, ev)
		assert.JSONEq(t, `[]`, string(data))
	}

	writeEvent(t, alice, constants.EventSendGroupMessage, map[string]string{
		"faculty": testRooms[0],
		"message": "salam hamıya",
	})
	for _, conn := range []*websocket.Conn{alice, bob} {
		ev, data := readEvent(t, conn)
		require.Equal(t, constants.EventNewGroupMessage, ev)
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, "salam hamıya", m.MessageText)
		assert.Equal(t, "Aygün", m.Sender.FullName)
	}

	writeEvent(t, bob, constants.EventSendPrivateMessage, map[string]any{"receiverId": 1, "message": "salam"})
	ev, _ := readEvent(t, alice)
	assert.Equal(t, constants.EventNewPrivateMessage, ev)
	ev, _ = readEvent(t, bob)
	assert.Equal(t, constants.EventNewPrivateMessage, ev)

	// disconnect unbinds the identity and leaves the room
	require.NoError(t, bob.Close())
	assert.Eventually(t, func() bool {
		return len(f.server.Registry().ConnectionsFor(2)) == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, f.server.Rooms().RecipientsExcluding(testRooms[0], nil, nil), 1)
	assert.Len(t, f.server.Store().PrivateMessages(PairKey(1, 2)), 1)
}

func TestWebsocketGateway_ServerCloseEndsConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	r.GET("/ws", f.server.ServeWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv)
	writeEvent(t, conn, constants.EventAuthenticate, 1)
	readEvent(t, conn)

	f.server.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
