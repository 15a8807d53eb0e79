package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/database"
)

const chatChannelPrefix = "chat:room:"

// ChatEvent is the payload broadcast over Redis and fanned out to
// WebSocket connections.
type ChatEvent struct {
	Type      string    `json:"type"` // "message", "blocked", "warning", "error", "pong"
	RoomID    string    `json:"room_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// chatHub fans events out to local subscribers, keyed by room.
type chatHub struct {
	mu    sync.RWMutex
	rooms map[string]map[chan ChatEvent]struct{}
}

var (
	hub          = &chatHub{rooms: make(map[string]map[chan ChatEvent]struct{})}
	redisStarted sync.Once
)

// SubscribeToRoom registers a local subscriber for a room's events.
// The returned channel is buffered; slow consumers drop events rather than
// block the fan-out. Call unsubscribe when the connection closes.
func SubscribeToRoom(roomID string) (events <-chan ChatEvent, unsubscribe func()) {
	ch := make(chan ChatEvent, 32)

	hub.mu.Lock()
	subs, ok := hub.rooms[roomID]
	if !ok {
		subs = make(map[chan ChatEvent]struct{})
		hub.rooms[roomID] = subs
	}
	subs[ch] = struct{}{}
	hub.mu.Unlock()

	return ch, func() {
		hub.mu.Lock()
		if subs, ok := hub.rooms[roomID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(hub.rooms, roomID)
			}
		}
		hub.mu.Unlock()
		close(ch)
	}
}

// fanOut delivers an event to all local subscribers of its room.
func fanOut(event ChatEvent) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for ch := range hub.rooms[event.RoomID] {
		select {
		case ch <- event:
		default:
			// Slow consumer; drop instead of blocking the hub.
		}
	}
}

// PublishChatEvent publishes an event to the room's Redis channel so every
// instance fans it out to its local connections.
func PublishChatEvent(ctx context.Context, event ChatEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, chatChannelPrefix+event.RoomID, data).Err()
}

// StartRedisChatSubscriber ensures a single shared Redis listener per
// instance.
func StartRedisChatSubscriber(ctx context.Context) {
	redisStarted.Do(func() {
		go runRedisSubscriber(ctx)
	})
}

func runRedisSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; chat subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, chatChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Chat Redis subscriber started (pattern: chat:room:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event ChatEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal chat event: %v", err)
					continue
				}
				fanOut(event)
			}
		}()
	}
}
