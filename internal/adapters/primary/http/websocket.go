package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Outline edits ride the
	// socket, so frames are sized for a full edited outline.
	maxMessageSize = 64 << 10
)

// createUpgrader creates a WebSocket upgrader with proper origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.isValidOrigin(r)
		},
	}
}

// previewEvent is a server-to-client frame on the preview socket
type previewEvent struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Slides  int    `json:"slides"`
	Message string `json:"message,omitempty"`
}

// clientMessage is a client-to-server frame; outline edits arrive as
// type "preview" with the full current outline text
type clientMessage struct {
	Type    string `json:"type"`
	Outline string `json:"outline"`
}

// previewClient is one live preview connection. Replies go only to the
// client that sent the edit; preview state is never shared.
type previewClient struct {
	id     string
	conn   *websocket.Conn
	send   chan previewEvent
	server *Server
	logger *HTTPLogger
	once   sync.Once
}

// close shuts the send channel exactly once, which ends the write pump
func (c *previewClient) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	client := &previewClient{
		id:     uuid.New().String(),
		conn:   conn,
		send:   make(chan previewEvent, 8),
		server: s,
		logger: s.logger,
	}

	s.registerClient(client)

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()

	// Send initial connection event
	event := previewEvent{
		Type:    "connected",
		Message: "Connected to deckgen server",
	}

	select {
	case client.send <- event:
	default:
		// Client's send channel is full
	}
}

// readPump pumps messages from the WebSocket connection
func (c *previewClient) readPump() {
	defer func() {
		c.server.unregisterClient(c.id)
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Read message from browser
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket connection error: %v", err)
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Error("Failed to parse client message: %v", err)
			continue
		}

		switch msg.Type {
		case "preview":
			c.handlePreviewRequest(msg)
		default:
			c.logger.Debug("Ignoring message of type %q from client %s", msg.Type, c.id)
		}
	}
}

// writePump pumps messages to the WebSocket connection
func (c *previewClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The channel has been closed
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Write the event as JSON
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handlePreviewRequest parses the edited outline and answers with the
// rendered slide cards
func (c *previewClient) handlePreviewRequest(msg clientMessage) {
	outline := c.server.converter.ParseOutline(msg.Outline)

	html, err := c.server.preview.RenderPreview(context.Background(), outline)
	if err != nil {
		c.logger.Error("Preview rendering failed for client %s: %v", c.id, err)
		c.deliver(previewEvent{Type: "error", Message: "Preview rendering failed"})
		return
	}

	c.deliver(previewEvent{
		Type:   "preview",
		HTML:   string(html),
		Slides: len(outline),
	})
}

// deliver queues an event for the client, dropping it when the client is
// too slow to keep the pumps unblocked
func (c *previewClient) deliver(event previewEvent) {
	select {
	case c.send <- event:
	default:
		c.logger.Debug("Dropping event for slow preview client %s", c.id)
	}
}

// isValidOrigin validates WebSocket connection origins based on environment
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow empty origin (same-origin requests)
	if origin == "" {
		return true
	}

	// Parse origin URL
	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid origin URL %q: %v", origin, err)
		return false
	}

	// Development mode: allow localhost and LAN addresses
	if s.config.IsDevelopment() {
		return s.isDevelopmentOrigin(originURL)
	}

	// Production mode: strict whitelist validation
	return s.isProductionOrigin(originURL)
}

// isDevelopmentOrigin validates origins for development environment
func (s *Server) isDevelopmentOrigin(originURL *url.URL) bool {
	hostname := originURL.Hostname()

	// Allow localhost, 127.0.0.1, and LAN addresses for development
	allowedHosts := []string{
		"localhost",
		"127.0.0.1",
		"0.0.0.0",
	}

	for _, allowed := range allowedHosts {
		if hostname == allowed {
			return true
		}
	}

	// Allow private network ranges (192.168.x.x, 10.x.x.x, 172.16-31.x.x)
	if strings.HasPrefix(hostname, "192.168.") ||
		strings.HasPrefix(hostname, "10.") ||
		s.isPrivateClassB(hostname) {
		return true
	}

	return false
}

// isProductionOrigin validates origins for production environment
func (s *Server) isProductionOrigin(originURL *url.URL) bool {
	// Production: use configured CORS origins
	for _, allowedOrigin := range s.config.GetCORSOrigins() {
		if originURL.String() == allowedOrigin {
			return true
		}

		// Support wildcard subdomains (*.example.com)
		if strings.HasPrefix(allowedOrigin, "*.") {
			domain := strings.TrimPrefix(allowedOrigin, "*.")
			if strings.HasSuffix(originURL.Hostname(), domain) {
				return true
			}
		}
	}

	s.logger.Warn("WebSocket connection rejected: origin %q not in whitelist %v",
		originURL.String(), s.config.GetCORSOrigins())
	return false
}

// isPrivateClassB checks for 172.16.0.0 to 172.31.255.255 range
func (s *Server) isPrivateClassB(hostname string) bool {
	if !strings.HasPrefix(hostname, "172.") {
		return false
	}

	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return false
	}

	// Check if second octet is between 16-31
	secondOctet := parts[1]
	switch secondOctet {
	case "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "31":
		return true
	default:
		return false
	}
}
