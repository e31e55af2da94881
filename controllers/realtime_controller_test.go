package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sunghoonkim81/sul-calendar-web/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestUpdatesWSReceivesBroadcast(t *testing.T) {
	r, hub := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/updates?user=alice"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount("alice") == 1 },
		time.Second, 10*time.Millisecond)

	body := `{"user":"alice","date":"2025-02-10","soju":2}`
	res, err := http.Post(srv.URL+"/api/update", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var upd services.DayUpdate
	require.NoError(t, json.Unmarshal(msg, &upd))
	require.Equal(t, "day.updated", upd.Kind)
	require.Equal(t, "alice", upd.User)
	require.Equal(t, "2025-02-10", upd.Date)
	require.False(t, upd.Removed)
	require.NotNil(t, upd.Day)
	require.Equal(t, 2, upd.Day.Amounts["soju"])
}

func TestUpdatesWSOtherUserStaysQuiet(t *testing.T) {
	r, hub := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/updates?user=bob"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount("bob") == 1 },
		time.Second, 10*time.Millisecond)

	body := `{"user":"alice","date":"2025-02-10","coffee":true}`
	res, err := http.Post(srv.URL+"/api/update", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	res.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err) // deadline, nothing delivered
}
