package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/database"
	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// Redis recent-history cache for the chat history endpoint. The moderation
// pipeline never reads this cache; its windows always query MongoDB so a
// trimmed or stale cache can't weaken detection.
const (
	roomRecentKeyPrefix = "chat:room:"
	roomRecentKeySuffix = ":recent"
	roomRecentMaxLen    = 50
	roomRecentTTL       = 1 * time.Hour
)

func roomRecentKey(roomID string) string {
	return roomRecentKeyPrefix + roomID + roomRecentKeySuffix
}

// PushMessageToRecentCache adds a message to the room's recent cache
// (newest at head). LPUSH + LTRIM keeps the last 50.
func PushMessageToRecentCache(msg models.Message) {
	if database.RedisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	key := roomRecentKey(msg.RoomID)
	pipe := database.RedisClient.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, roomRecentMaxLen-1)
	pipe.Expire(ctx, key, roomRecentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("chat_cache: push failed for room %s: %v", msg.RoomID, err)
	}
}

// recentMessagesFromCache returns the room's cached recent messages
// (oldest-first). Returns (nil, false) on miss.
func recentMessagesFromCache(ctx context.Context, roomID string) ([]models.Message, bool) {
	if database.RedisClient == nil {
		return nil, false
	}

	raw, err := database.RedisClient.LRange(ctx, roomRecentKey(roomID), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	var msgs []models.Message
	for i := len(raw) - 1; i >= 0; i-- {
		var m models.Message
		if json.Unmarshal([]byte(raw[i]), &m) != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, true
}

// LoadRoomMessagesWithCache returns room history. For the initial load
// (before == nil) it tries Redis first; on miss it fetches from Mongo and
// warms the cache.
func LoadRoomMessagesWithCache(ctx context.Context, roomID string, before *time.Time, limit int64) ([]models.Message, bool, error) {
	if before == nil && limit <= roomRecentMaxLen {
		if cached, ok := recentMessagesFromCache(ctx, roomID); ok {
			out := cached
			if int64(len(cached)) > limit {
				out = cached[int64(len(cached))-limit:]
			}
			hasMore := int64(len(cached)) >= limit
			return out, hasMore, nil
		}
	}

	msgs, hasMore, err := Messages.LoadRoomMessages(ctx, roomID, before, limit)
	if err != nil {
		return nil, false, err
	}
	if before == nil && len(msgs) > 0 {
		warmRecentCache(ctx, roomID, msgs)
	}
	return msgs, hasMore, nil
}

// warmRecentCache stores messages in Redis (oldest at tail).
func warmRecentCache(ctx context.Context, roomID string, msgs []models.Message) {
	if database.RedisClient == nil || len(msgs) == 0 {
		return
	}

	key := roomRecentKey(roomID)
	pipe := database.RedisClient.Pipeline()
	for i := len(msgs) - 1; i >= 0; i-- {
		data, err := json.Marshal(msgs[i])
		if err != nil {
			continue
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.LTrim(ctx, key, 0, roomRecentMaxLen-1)
	pipe.Expire(ctx, key, roomRecentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("chat_cache: warm failed for room %s: %v", roomID, err)
	}
}
