package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/position"
	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/logger"
)

const (
	streamWriteWait  = 5 * time.Second
	streamPongWait   = 30 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamReadLimit  = 512
)

// StreamHandler pushes periodic device snapshots over a websocket
type StreamHandler struct {
	source    *position.Source
	trails    *service.TrailService
	nav       *service.NavigationService
	lost      *service.LostModeService
	emergency *service.EmergencyService
	interval  time.Duration
	log       *logger.Logger
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*websocket.Conn
	closing chan struct{}
	once    sync.Once
}

// NewStreamHandler creates a stream handler that emits a frame every interval
func NewStreamHandler(
	source *position.Source,
	trails *service.TrailService,
	nav *service.NavigationService,
	lost *service.LostModeService,
	emergency *service.EmergencyService,
	interval time.Duration,
	log *logger.Logger,
) *StreamHandler {
	return &StreamHandler{
		source:    source,
		trails:    trails,
		nav:       nav,
		lost:      lost,
		emergency: emergency,
		interval:  interval,
		log:       log.WithComponent("stream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // the handheld serves a local network only
			},
		},
		clients: make(map[string]*websocket.Conn),
		closing: make(chan struct{}),
	}
}

// Stream handles GET /api/v1/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.NewString()
	l := h.log.WithField("client_id", clientID)
	h.register(clientID, conn)
	defer h.unregister(clientID)
	l.Info("Stream client connected", zap.Int("clients", h.ClientCount()))

	done := make(chan struct{})
	go h.readPump(conn, done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	pinger := time.NewTicker(streamPingPeriod)
	defer pinger.Stop()

	var seq int64
	send := func() bool {
		seq++
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(h.snapshot(clientID, seq)); err != nil {
			l.Debug("Stream write failed", zap.Error(err))
			return false
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-ticker.C:
			if !send() {
				return
			}
		case <-pinger.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-done:
			l.Info("Stream client disconnected")
			return
		case <-h.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(streamWriteWait))
			return
		}
	}
}

// readPump drains client messages so control frames are processed
func (h *StreamHandler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) snapshot(clientID string, seq int64) models.StreamFrame {
	frame := models.StreamFrame{
		Type:       models.StreamFrameType,
		ClientID:   clientID,
		Sequence:   seq,
		SentAt:     time.Now(),
		Position:   h.source.Status(),
		Trail:      h.trails.Status(),
		Navigation: h.nav.Status(),
		Emergency:  h.emergency.Status(),
	}
	if h.lost.IsActive() {
		status := h.lost.Status()
		frame.LostMode = &status
	}
	return frame
}

func (h *StreamHandler) register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = conn
}

func (h *StreamHandler) unregister(id string) {
	h.mu.Lock()
	conn := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// ClientCount returns the number of connected stream clients
func (h *StreamHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every stream client
func (h *StreamHandler) Close() {
	h.once.Do(func() { close(h.closing) })
}
