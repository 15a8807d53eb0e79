package store

import (
	"context"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCollection = "messages"

// MongoMessageStore persists chat messages in MongoDB (one document per
// message) and serves the bounded recent-history window the moderation
// detectors query.
type MongoMessageStore struct {
	DB *mongo.Database
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{DB: db}
}

// EnsureMessageIndexes configures the indexes the history queries need.
// Called on startup once Mongo has connected.
func (s *MongoMessageStore) EnsureMessageIndexes(ctx context.Context) error {
	col := s.DB.Collection(messagesCollection)

	indexes := []mongo.IndexModel{
		{
			// Room history pagination.
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_room_created"),
		},
		{
			// Per-user recent window for the pattern detectors.
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "room_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_room_created"),
		},
	}

	for _, m := range indexes {
		if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// InsertMessage persists a message and returns it with the generated id.
// The send pipeline needs the id synchronously so violation records can
// back-reference the message.
func (s *MongoMessageStore) InsertMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	result, err := s.DB.Collection(messagesCollection).InsertOne(ctx, msg)
	if err != nil {
		return models.Message{}, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return msg, nil
}

// RecentMessages returns up to limit messages by the user in the room since
// the given time, newest first. This always hits Mongo; the Redis recent
// cache is only for the history endpoint, where staleness is acceptable.
func (s *MongoMessageStore) RecentMessages(ctx context.Context, userID, roomID string, since time.Time, limit int) ([]models.Message, error) {
	filter := bson.M{
		"user_id":    userID,
		"room_id":    roomID,
		"created_at": bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.DB.Collection(messagesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// LoadRoomMessages returns paginated room history (newest-first scrolling,
// returned oldest-first for the UI). The extra fetched row detects whether
// more pages exist.
func (s *MongoMessageStore) LoadRoomMessages(ctx context.Context, roomID string, before *time.Time, limit int64) ([]models.Message, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	filter := bson.M{"room_id": roomID}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": before.UTC()}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := s.DB.Collection(messagesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, false, err
	}

	hasMore := int64(len(msgs)) > limit
	if hasMore {
		msgs = msgs[:limit]
	}

	// Reverse to oldest-first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, hasMore, nil
}
