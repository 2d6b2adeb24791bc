package service

import (
	"net/http"
	"time"

	"smart_classroom_backend/internal/util"
	"smart_classroom_backend/pkg/logger"
	"smart_classroom_backend/pkg/monitoring"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 32 * 1024 // 笔记全文随事件上行，放宽到 32KB
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventHandler 上行事件的业务分发入口
type EventHandler interface {
	HandleEvent(c *ClassroomClient, ev *WSEvent)
}

// ClassroomClient 一条 WebSocket 连接。rooms 和 presenceClasses
// 只在持有 hub 锁时读写。
type ClassroomClient struct {
	Hub     *ClassroomHub
	Conn    *websocket.Conn
	Send    chan []byte
	Limiter *rate.Limiter

	ID       string // 连接 ID，同一用户可开多条连接
	UserID   string
	UserName string
	Role     string

	rooms           map[string]bool
	presenceClasses map[string]string // classID -> userID
	sendClosed      bool
}

func newClassroomClient(hub *ClassroomHub, conn *websocket.Conn, claims *util.Claims) *ClassroomClient {
	return &ClassroomClient{
		Hub:             hub,
		Conn:            conn,
		Send:            make(chan []byte, sendBufferSize),
		Limiter:         rate.NewLimiter(rate.Limit(30), 50), // 每秒30条，允许突发50条
		ID:              uuid.New().String(),
		UserID:          claims.UserID,
		UserName:        claims.Name,
		Role:            string(claims.Role),
		rooms:           make(map[string]bool),
		presenceClasses: make(map[string]string),
	}
}

// trySend 仅在持有 hub 读锁时调用；false 表示缓冲已满
func (c *ClassroomClient) trySend(payload []byte) bool {
	if c.sendClosed {
		return true
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// closeSend 仅在持有 hub 写锁时调用
func (c *ClassroomClient) closeSend() {
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.Send)
}

func (c *ClassroomClient) readPump(handler EventHandler) {
	defer func() {
		c.Hub.Disconnect(c)
		c.Conn.Close()
		monitoring.WSConnections.Dec()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		ev, err := ParseEvent(message)
		if err != nil {
			monitoring.WSEventCounter.WithLabelValues("invalid", "in").Inc()
			c.Reply(Encode(EvProtocolError, map[string]string{"message": err.Error()}))
			continue
		}

		monitoring.WSEventCounter.WithLabelValues(ev.Event, "in").Inc()
		handler.HandleEvent(c, ev)
	}
}

func (c *ClassroomClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Reply 只发给本连接，缓冲满则丢弃
func (c *ClassroomClient) Reply(payload []byte) {
	defer func() {
		// Send 可能在掉线清理时被关闭
		recover()
	}()
	select {
	case c.Send <- payload:
	default:
	}
}

// ServeClassroomWs 升级连接并启动读写泵
func ServeClassroomWs(hub *ClassroomHub, handler EventHandler, w http.ResponseWriter, r *http.Request, claims *util.Claims) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.String("userId", claims.UserID))
		return
	}
	client := newClassroomClient(hub, conn, claims)
	monitoring.WSConnections.Inc()
	logger.Log.Info("classroom client connected",
		zap.String("conn", client.ID),
		zap.String("userId", client.UserID),
		zap.String("role", client.Role))

	go client.writePump()
	go client.readPump(handler)
}
