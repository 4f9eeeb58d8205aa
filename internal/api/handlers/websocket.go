package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/websocket/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/api/middleware"
	ws "github.com/chynybekuuludastan/content_mapper/internal/api/websocket"
	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/shortcuts"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
)

// WebSocketHandler runs a session's realtime channel: job progress, analysis
// events and keyboard shortcut dispatch
type WebSocketHandler struct {
	Hub        *ws.Hub
	Store      *storage.Store
	Workspaces *analysis.Workspaces
	Logger     logging.Logger
}

type subscribeRequest struct {
	Topic string `json:"topic"`
}

type shortcutsRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleSession serves /ws/session. The connection is subscribed to its
// session topic and keeps the workspace open; the workspace is closed once
// its last connection leaves.
func (h *WebSocketHandler) HandleSession(c *websocket.Conn) {
	sessionID, _ := c.Locals(middleware.SessionLocal).(string)
	client := ws.NewClient(c)

	registry, err := shortcuts.NewRegistry(shortcuts.DefaultBindings(func(command string) {
		client.Send(ws.Message{
			Type: ws.TypeCommand,
			Data: map[string]string{"command": command},
		})
	}))
	if err != nil {
		h.Logger.Error("Invalid shortcut table", "error", err)
		client.Send(ws.Message{Type: ws.TypeError, Data: map[string]string{"message": err.Error()}})
		return
	}

	prefs := h.Store.GetPreferences(context.Background()).Value
	registry.SetEnabled(prefs.KeyboardShortcuts)

	client.Send(ws.Message{
		Type: ws.TypeConnected,
		Data: map[string]interface{}{
			"sessionId": sessionID,
			"shortcuts": registry.Enabled(),
		},
	})

	h.Workspaces.Attach(sessionID)
	defer h.Workspaces.Detach(context.Background(), sessionID)
	h.Logger.Debug("WebSocket session opened", "session", sessionID)

	h.Hub.Serve(client, []string{SessionTopic(sessionID)}, func(client *ws.Client, msg ws.Inbound) {
		h.handleMessage(client, registry, sessionID, msg)
	})
	h.Logger.Debug("WebSocket session closed", "session", sessionID)
}

func (h *WebSocketHandler) handleMessage(client *ws.Client, registry *shortcuts.Registry, sessionID string, msg ws.Inbound) {
	switch msg.Type {
	case ws.TypeKey:
		var event shortcuts.KeyEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			client.Send(ws.Message{Type: ws.TypeError, Data: map[string]string{"message": "invalid key event"}})
			return
		}
		registry.Dispatch(event)

	case ws.TypeSubscribe:
		var req subscribeRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || !allowedTopic(req.Topic, sessionID) {
			client.Send(ws.Message{Type: ws.TypeError, Data: map[string]string{"message": "invalid topic"}})
			return
		}
		h.Hub.Subscribe(client, req.Topic)

	case ws.TypeShortcuts:
		var req shortcutsRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.Send(ws.Message{Type: ws.TypeError, Data: map[string]string{"message": "invalid shortcuts request"}})
			return
		}
		registry.SetEnabled(req.Enabled)
		client.Send(ws.Message{Type: ws.TypeShortcuts, Data: map[string]bool{"enabled": registry.Enabled()}})

	default:
		client.Send(ws.Message{Type: ws.TypeError, Data: map[string]string{"message": "unknown message type " + msg.Type}})
	}
}

// allowedTopic admits job topics and the connection's own session topic
func allowedTopic(topic, sessionID string) bool {
	if strings.HasPrefix(topic, "job:") && len(topic) > len("job:") {
		return true
	}
	return topic == SessionTopic(sessionID)
}
