package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/Alexis12119/chat-profanity-detector/internal/services"
	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// ChatHistoryResponse is the paginated history payload.
type ChatHistoryResponse struct {
	Messages []models.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

// requireUser validates the caller's session token and returns the user id.
// Writes the error response itself on failure.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return uuid.Nil, false
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// GetChatHistory returns a room's messages, newest page first in request
// order but oldest-first within the page. Pagination via ?before=<RFC3339>.
func GetChatHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if parsed > maxHistoryLimit {
			parsed = maxHistoryLimit
		}
		limit = parsed
	}

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid before timestamp, expected RFC3339", http.StatusBadRequest)
			return
		}
		before = &parsed
	}

	messages, hasMore, err := services.LoadRoomMessagesWithCache(r.Context(), roomID, before, limit)
	if err != nil {
		http.Error(w, "failed to load messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatHistoryResponse{Messages: messages, HasMore: hasMore})
}
