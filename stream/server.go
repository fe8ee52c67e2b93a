package stream

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mm-sim-go/market"
)

// Server 把模拟的逐步快照与成交通过 WebSocket 推给订阅端。
// 写失败的连接直接摘除，不影响其它订阅者。
type Server struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler 升级 HTTP 连接并登记订阅。
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		n := len(s.clients)
		s.mu.Unlock()
		s.log.Info("ws client connected", zap.Int("clients", n))

		// 读循环只为感知对端关闭
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					s.drop(conn)
					return
				}
			}
		}()
	}
}

// Broadcast 向所有订阅端推送一条 JSON 消息。
func (s *Server) Broadcast(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(v); err != nil {
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

// Pump 消费发布器的事件流直到 ctx 结束。
func (s *Server) Pump(ctx context.Context, snaps <-chan market.Snapshot, trades <-chan market.Trade) error {
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			s.Broadcast(map[string]interface{}{"type": "snapshot", "data": snap})
		case trade, ok := <-trades:
			if !ok {
				return nil
			}
			s.Broadcast(map[string]interface{}{"type": "trade", "data": trade})
		}
	}
}

// ClientCount 返回当前订阅端数量。
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}
