package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/config"
	"github.com/Alexis12119/chat-profanity-detector/internal/database"
	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/Alexis12119/chat-profanity-detector/internal/moderation"
	"github.com/Alexis12119/chat-profanity-detector/internal/store"
)

// Moderation is the shared pipeline engine, built once at startup.
var Moderation *moderation.Engine

// Store is the shared Postgres store; handlers use it for the queries that
// sit outside the core pipeline (warnings, admin lists, profiles).
var Store *store.PostgresStore

// Messages is the shared Mongo message store.
var Messages *store.MongoMessageStore

// InitModeration wires the engine to Postgres, MongoDB and Redis. The Redis
// locker serializes per-user escalation across instances; without Redis the
// engine falls back to an in-process lock.
func InitModeration(cfg *config.Config) {
	Store = store.NewPostgresStore(database.PostgresDB)
	Messages = store.NewMongoMessageStore(database.DB)

	var locker moderation.UserLocker
	if database.RedisClient != nil {
		locker = store.NewRedisUserLocker(database.RedisClient)
	}

	policy := moderation.DefaultEscalationPolicy()
	mc := cfg.Moderation
	if mc.BanViolationCount > 0 {
		policy.BanViolationCount = mc.BanViolationCount
	}
	if mc.BanSeverity > 0 {
		policy.BanSeverity = mc.BanSeverity
	}
	if mc.MuteViolationCount > 0 {
		policy.MuteViolationCount = mc.MuteViolationCount
	}
	if mc.MuteSeverity > 0 {
		policy.MuteSeverity = mc.MuteSeverity
	}
	if mc.WarningSeverity > 0 {
		policy.WarningSeverity = mc.WarningSeverity
	}
	if mc.MuteDurationMinutes > 0 {
		policy.MuteDurationMinutes = mc.MuteDurationMinutes
	}
	if mc.BanDurationMinutes > 0 {
		policy.BanDurationMinutes = mc.BanDurationMinutes
	}

	Moderation = moderation.NewEngine(moderation.Deps{
		History:     Messages,
		Violations:  Store,
		Punishments: Store,
		Profiles:    Store,
		Activity:    Store,
		Locker:      locker,
	}, policy, mc.ProfanityWords)

	log.Println("✅ Moderation pipeline initialized")
}

// PunishmentEvent is broadcast over Redis when a user's punishment state
// changes, so status UIs can refresh without polling.
type PunishmentEvent struct {
	UserID          string                `json:"user_id"`
	PunishmentType  models.PunishmentType `json:"punishment_type,omitempty"`
	Revoked         bool                  `json:"revoked,omitempty"`
	CanSendMessages bool                  `json:"can_send_messages"`
	Timestamp       time.Time             `json:"timestamp"`
}

const punishmentChannelPrefix = "moderation:user:"

// NotifyPunishmentChange publishes a punishment event for the user.
// Best-effort; failures only log.
func NotifyPunishmentChange(ctx context.Context, userID string, punishmentType models.PunishmentType, revoked bool) {
	if database.RedisClient == nil {
		return
	}

	canSend, err := Moderation.CanSendMessages(ctx, userID)
	if err != nil {
		log.Printf("moderation: gate check for punishment event failed: %v", err)
		canSend = false
	}

	event := PunishmentEvent{
		UserID:          userID,
		PunishmentType:  punishmentType,
		Revoked:         revoked,
		CanSendMessages: canSend,
		Timestamp:       time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := database.RedisClient.Publish(ctx, punishmentChannelPrefix+userID, data).Err(); err != nil {
		log.Printf("moderation: punishment event publish failed for user %s: %v", userID, err)
	}
}
