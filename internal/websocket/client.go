package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 错误定义
var (
	ErrClientNotFound   = errors.New("websocket client not found")
	ErrUserNotConnected = errors.New("user not connected")
	ErrSendBufferFull   = errors.New("send buffer full")
	ErrHubClosed        = errors.New("hub stopped")
)

// 客户端只发送控制消息
const maxMessageSize = 4 * 1024

// Client WebSocket客户端
type Client struct {
	ID     string
	UserID string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
}

// ReadPump 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	pongWait := c.Hub.opts.PongTimeout
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WebSocket read error",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			return
		}
		if !c.handleMessage(message) {
			return
		}
	}
}

// WritePump 写入消息; one frame per message.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Hub.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	writeWait := c.Hub.opts.WriteTimeout
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub关闭了通道
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理接收到的消息，返回 false 时断开连接
func (c *Client) handleMessage(data []byte) bool {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		c.Hub.logger.Warn("Invalid WebSocket message", zap.String("client_id", c.ID))
		c.sendError("invalid message")
		return false
	}

	switch msg.Type {
	case MessageTypePing:
		_ = c.Hub.SendToClient(c.ID, newMessage(MessageTypePong, c.UserID, nil))
	case MessageTypePong:
	default:
		c.sendError("unsupported message type: " + msg.Type)
	}
	return true
}

// sendError 发送错误消息
func (c *Client) sendError(message string) {
	_ = c.Hub.SendToClient(c.ID, newMessage(MessageTypeError, c.UserID, map[string]string{"error": message}))
}
