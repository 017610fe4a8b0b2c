package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/pocketfi/internal/logging"
)

// The access-log wrapper must not hide http.Hijacker from the upgrader,
// or every WebSocket upgrade dies with a 500.
func TestMiddlewarePreservesHijack(t *testing.T) {
	log := logging.New(nil, "silent")
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.WriteMessage(mt, msg)
	})

	ts := httptest.NewServer(withMiddleware(handler, log))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	_, echoed, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(echoed))
}

func TestMiddlewareRequestID(t *testing.T) {
	log := logging.New(nil, "silent")
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ts := httptest.NewServer(withMiddleware(handler, log))
	defer ts.Close()

	res, err := http.Get(ts.URL)
	require.NoError(t, err)
	res.Body.Close()
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "fixed-id")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "fixed-id", res.Header.Get("X-Request-ID"))
}
