package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// dialPreviewSocket connects to the /ws endpoint of a routed test server and
// consumes the initial connected event
func dialPreviewSocket(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	var event previewEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "connected", event.Type)

	return conn
}

// wsClientCount reads the tracked connection count under the server lock
func wsClientCount(s *Server) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wsClients)
}

func TestWebSocketConnect(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	ts := httptest.NewServer(server.setupRoutes())
	defer ts.Close()

	conn := dialPreviewSocket(t, ts)
	defer func() { _ = conn.Close() }()

	assert.Eventually(t, func() bool {
		return wsClientCount(server) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWebSocketPreviewRoundTrip(t *testing.T) {
	server, converter, preview := newTestServer(t, nil)

	outline := entities.Outline{
		{Title: "Overview", Bullets: []string{"a"}},
		{Title: "Details", Bullets: []string{"b", "c"}},
	}
	converter.On("ParseOutline", "**Slide 1: Overview**").Return(outline)
	preview.On("RenderPreview", mock.Anything, outline).Return([]byte(`<div class="preview-slide">Overview</div>`), nil)

	ts := httptest.NewServer(server.setupRoutes())
	defer ts.Close()

	conn := dialPreviewSocket(t, ts)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "preview", Outline: "**Slide 1: Overview**"}))

	var event previewEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, "preview", event.Type)
	assert.Contains(t, event.HTML, "preview-slide")
	assert.Equal(t, 2, event.Slides)

	converter.AssertExpectations(t)
	preview.AssertExpectations(t)
}

func TestWebSocketPreviewRenderError(t *testing.T) {
	server, converter, preview := newTestServer(t, nil)

	converter.On("ParseOutline", mock.Anything).Return(entities.Outline{})
	preview.On("RenderPreview", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	ts := httptest.NewServer(server.setupRoutes())
	defer ts.Close()

	conn := dialPreviewSocket(t, ts)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "preview", Outline: "whatever"}))

	var event previewEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, "error", event.Type)
	assert.Equal(t, "Preview rendering failed", event.Message)
}

func TestWebSocketIgnoresUnknownMessageTypes(t *testing.T) {
	server, converter, preview := newTestServer(t, nil)

	outline := entities.Outline{{Title: "T", Bullets: []string{"x"}}}
	converter.On("ParseOutline", "real").Return(outline)
	preview.On("RenderPreview", mock.Anything, outline).Return([]byte("<div></div>"), nil)

	ts := httptest.NewServer(server.setupRoutes())
	defer ts.Close()

	conn := dialPreviewSocket(t, ts)

	// An unknown frame must not produce a reply or kill the connection
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "navigate", Outline: ""}))
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "preview", Outline: "real"}))

	var event previewEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "preview", event.Type)
	assert.Equal(t, 1, event.Slides)
}

func TestWebSocketDisconnectCleansUp(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	ts := httptest.NewServer(server.setupRoutes())
	defer ts.Close()

	conn := dialPreviewSocket(t, ts)

	require.Eventually(t, func() bool {
		return wsClientCount(server) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return wsClientCount(server) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestIsValidOriginDevelopment(t *testing.T) {
	server, _, _ := newTestServer(t, nil) // Environment "" is development

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"empty origin allowed", "", true},
		{"localhost", "http://localhost:3000", true},
		{"loopback", "http://127.0.0.1:8080", true},
		{"all interfaces", "http://0.0.0.0:1337", true},
		{"private class C", "http://192.168.1.50:3000", true},
		{"private class A", "http://10.0.0.5", true},
		{"private class B low", "http://172.16.0.1", true},
		{"private class B high", "http://172.31.255.254", true},
		{"below class B range", "http://172.15.0.1", false},
		{"above class B range", "http://172.32.0.1", false},
		{"public host", "http://evil.example.com", false},
		{"public https", "https://example.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, server.isValidOrigin(req))
		})
	}
}

func TestIsValidOriginProduction(t *testing.T) {
	config := getTestServerConfig()
	config.Environment = "production"
	config.CORSOrigins = []string{"https://decks.example.com", "*.trusted.io"}
	server, _, _ := newTestServer(t, config)

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"exact whitelist match", "https://decks.example.com", true},
		{"wildcard subdomain", "https://app.trusted.io", true},
		{"unlisted host", "https://evil.example.com", false},
		{"localhost not allowed in production", "http://localhost:3000", false},
		{"empty origin still allowed", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, server.isValidOrigin(req))
		})
	}
}

func TestIsPrivateClassB(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	tests := []struct {
		hostname string
		want     bool
	}{
		{"172.16.0.1", true},
		{"172.31.9.9", true},
		{"172.20.100.200", true},
		{"172.15.0.1", false},
		{"172.32.0.1", false},
		{"192.168.1.1", false},
		{"172", false},
		{"example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			assert.Equal(t, tt.want, server.isPrivateClassB(tt.hostname))
		})
	}
}

func TestPreviewClientDeliverDropsWhenFull(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	client := &previewClient{
		id:     "test-client",
		send:   make(chan previewEvent, 1),
		server: server,
		logger: server.logger,
	}

	client.deliver(previewEvent{Type: "preview"})
	client.deliver(previewEvent{Type: "preview"}) // Buffer full, dropped

	assert.Len(t, client.send, 1)
}

func TestPreviewClientCloseIsIdempotent(t *testing.T) {
	client := &previewClient{
		id:   "test-client",
		send: make(chan previewEvent, 1),
	}

	client.close()
	client.close() // Second close must not panic

	_, open := <-client.send
	assert.False(t, open)
}

// Registering and closing through the server tracks connections correctly
func TestServerClientRegistry(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	client := &previewClient{
		id:   "reg-client",
		send: make(chan previewEvent, 1),
	}

	server.registerClient(client)
	assert.Equal(t, 1, wsClientCount(server))

	server.unregisterClient(client.id)
	assert.Equal(t, 0, wsClientCount(server))

	// Unregistering twice is harmless
	server.unregisterClient(client.id)
	assert.Equal(t, 0, wsClientCount(server))
}
