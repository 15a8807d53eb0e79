package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/Alexis12119/chat-profanity-detector/internal/moderation"
	"github.com/Alexis12119/chat-profanity-detector/internal/services"
	"github.com/gorilla/websocket"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ChatClientMessage represents messages coming from the client over
// WebSocket.
type ChatClientMessage struct {
	Type    string `json:"type"` // "message", "ping"
	RoomID  string `json:"room_id"`
	Content string `json:"content,omitempty"`
}

// wsConn serializes writes to one connection. gorilla/websocket supports
// only a single concurrent writer, and both the room fan-out goroutine and
// the read loop's direct replies write here.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// ChatWebSocket is the realtime gateway and the in-process caller of the
// moderation pipeline. Every outgoing message goes through the punishment
// gate and the validator before it is persisted and broadcast.
// Authentication uses the session token issued by the external auth
// service (Authorization: Bearer <token> or ?token=).
func ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	username := ""
	if profile, err := services.Store.ProfileByID(r.Context(), userID.String()); err == nil {
		username = profile.Username
	}

	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	ws := &wsConn{conn: conn}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := services.SubscribeToRoom(roomID)
	defer unsubscribe()

	// Forward room events to this connection.
	go func() {
		for evt := range events {
			if err := ws.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		var msg ChatClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.RoomID == "" {
			msg.RoomID = roomID
		}

		switch msg.Type {
		case "message":
			handleOutgoingMessage(ctx, ws, userID.String(), username, msg)
		case "ping":
			_ = ws.WriteJSON(services.ChatEvent{Type: "pong", Timestamp: time.Now().UTC()})
		}
	}
}

// handleOutgoingMessage runs the full send pipeline for one message:
// gate check, validation, persistence, activity logging, fan-out and
// violation recording/escalation.
func handleOutgoingMessage(ctx context.Context, conn *wsConn, userID, username string, msg ChatClientMessage) {
	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Punishment gate: active mutes and bans block input entirely.
	canSend, err := services.Moderation.CanSendMessages(opCtx, userID)
	if err != nil {
		log.Printf("chat: gate check failed for user %s: %v", userID, err)
		_ = conn.WriteJSON(services.ChatEvent{Type: "error", Detail: "could not verify sending permissions"})
		return
	}
	if !canSend {
		_ = conn.WriteJSON(services.ChatEvent{Type: "blocked", Detail: "you are currently muted or banned"})
		return
	}

	validation := services.Moderation.ValidateMessage(opCtx, msg.Content, userID, msg.RoomID)

	if validation.ShouldBlock {
		// Blocked messages are never persisted, but their violations still
		// count toward the sender's escalation history.
		_ = conn.WriteJSON(services.ChatEvent{
			Type:   "blocked",
			RoomID: msg.RoomID,
			Detail: describeViolations(validation),
		})
		result := services.Moderation.ProcessViolation(opCtx, userID, validation.Violations, nil)
		if result.PunishmentType != "" {
			services.NotifyPunishmentChange(opCtx, userID, result.PunishmentType, false)
		}
		return
	}

	if validation.ShouldWarn {
		_ = conn.WriteJSON(services.ChatEvent{
			Type:   "warning",
			RoomID: msg.RoomID,
			Detail: describeViolations(validation),
		})
	}

	saved, err := services.Messages.InsertMessage(opCtx, models.Message{
		RoomID:   msg.RoomID,
		UserID:   userID,
		Username: username,
		Content:  msg.Content,
	})
	if err != nil {
		log.Printf("chat: message insert failed for user %s: %v", userID, err)
		_ = conn.WriteJSON(services.ChatEvent{Type: "error", Detail: "failed to send message"})
		return
	}

	services.PushMessageToRecentCache(saved)
	logMessageSent(opCtx, userID, msg.RoomID, msg.Content, !validation.IsValid)

	event := services.ChatEvent{
		Type:      "message",
		RoomID:    saved.RoomID,
		UserID:    saved.UserID,
		Username:  saved.Username,
		MessageID: saved.ID.Hex(),
		Content:   saved.Content,
		Timestamp: saved.CreatedAt,
	}
	if err := services.PublishChatEvent(opCtx, event); err != nil {
		log.Printf("chat: event publish failed for room %s: %v", saved.RoomID, err)
	}

	// Messages that passed with findings (warn path) still feed escalation,
	// back-referencing the persisted message.
	if !validation.IsValid {
		messageID := saved.ID.Hex()
		result := services.Moderation.ProcessViolation(opCtx, userID, validation.Violations, &messageID)
		if result.PunishmentType != "" {
			services.NotifyPunishmentChange(opCtx, userID, result.PunishmentType, false)
		}
	}
}

func logMessageSent(ctx context.Context, userID, roomID, content string, hasViolations bool) {
	entry, err := models.NewActivityLog(userID, models.MessageSentDetails{
		RoomID:        roomID,
		MessageLength: len(content),
		HasViolations: hasViolations,
	})
	if err != nil {
		return
	}
	if err := services.Store.AppendActivity(ctx, entry); err != nil {
		log.Printf("chat: message_sent activity append failed: %v", err)
	}
}

func describeViolations(v moderation.ValidationResult) string {
	parts := make([]string, 0, len(v.Violations))
	for _, f := range v.Violations {
		parts = append(parts, f.Description)
	}
	return strings.Join(parts, ", ")
}

func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
