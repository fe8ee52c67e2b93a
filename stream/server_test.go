package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mm-sim-go/market"
)

func dialTestServer(t *testing.T) (*Server, *websocket.Conn) {
	t.Helper()
	s := NewServer(nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// 等连接登记完成
	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s, conn
}

func TestBroadcastReachesClient(t *testing.T) {
	s, conn := dialTestServer(t)

	s.Broadcast(map[string]interface{}{
		"type": "snapshot",
		"data": market.Snapshot{Step: 7, Mid: 100.25},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string          `json:"type"`
		Data market.Snapshot `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "snapshot" || msg.Data.Step != 7 || msg.Data.Mid != 100.25 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestClosedClientIsDropped(t *testing.T) {
	s, conn := dialTestServer(t)
	_ = conn.Close()

	// 对端关闭后，广播应把失效连接摘除
	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() != 0 {
		s.Broadcast(map[string]interface{}{"type": "ping"})
		if time.Now().After(deadline) {
			t.Fatalf("stale client not dropped, count=%d", s.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
