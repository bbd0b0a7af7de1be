package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxControlBody  = 64 << 10
	shutdownTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the app's own origin behind the proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Config struct {
	ListenAddr  string
	ControlAddr string
}

// Server exposes the public websocket endpoint and the loopback control
// surface over one hub.
type Server struct {
	cfg Config
	hub *Hub
}

func NewServer(cfg Config, hub *Hub) *Server {
	return &Server{cfg: cfg, hub: hub}
}

// SocketRouter serves client websocket upgrades on / and /ws.
func (s *Server) SocketRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", s.serveSocket)
	r.GET("/ws", s.serveSocket)
	return r
}

// ControlRouter serves POST /broadcast for loopback peers only.
func (s *Server) ControlRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/broadcast", s.handleBroadcast)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "not found"})
	})
	return r
}

// Run serves both listeners until ctx is cancelled or one of them fails.
func (s *Server) Run(ctx context.Context) error {
	servers := []*http.Server{
		{Addr: s.cfg.ListenAddr, Handler: s.SocketRouter(), ReadHeaderTimeout: 10 * time.Second},
		{Addr: s.cfg.ControlAddr, Handler: s.ControlRouter(), ReadHeaderTimeout: 10 * time.Second},
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			zap.L().Info("relay listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("relay shutdown", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
	return runErr
}

func (s *Server) handleBroadcast(c *gin.Context) {
	ip := net.ParseIP(c.RemoteIP())
	if ip == nil || !ip.IsLoopback() {
		zap.L().Warn("rejected non-loopback broadcast", zap.String("remote", c.Request.RemoteAddr))
		c.JSON(http.StatusForbidden, gin.H{"status": "forbidden"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxControlBody+1))
	if err != nil || len(body) > maxControlBody || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid payload"})
		return
	}

	delivered, dropped := s.hub.Broadcast(body)
	zap.L().Debug("relayed event", zap.Int("delivered", delivered), zap.Int("dropped", dropped))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) serveSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := s.hub.Register()
	go s.writePump(conn, client)
	s.readPump(conn, client)
}

// readPump discards client frames; it only exists to notice disconnects.
func (s *Server) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		s.hub.Unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("relay client read error", zap.Uint64("client_id", client.ID()), zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.hub.Unregister(client)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.hub.Unregister(client)
				return
			}
		}
	}
}
