package moderation

import (
	"context"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// MessageHistory provides the bounded recent-message window the pattern
// detectors need. Any message backend works; this repo ships a MongoDB
// implementation and an in-memory one.
type MessageHistory interface {
	// RecentMessages returns up to limit messages by the user in the room
	// created at or after since, newest first.
	RecentMessages(ctx context.Context, userID, roomID string, since time.Time, limit int) ([]models.Message, error)
}

// ViolationStore persists and queries the append-only violation audit trail.
type ViolationStore interface {
	// InsertViolations persists the batch and returns the records with
	// generated ids and timestamps filled in.
	InsertViolations(ctx context.Context, records []models.ViolationRecord) ([]models.ViolationRecord, error)
	// ViolationsSince returns the user's violations created at or after
	// since, newest first.
	ViolationsSince(ctx context.Context, userID string, since time.Time) ([]models.ViolationRecord, error)
}

// PunishmentStore holds punishment and warning records. Expiry is never
// written back; "active" queries filter by expires_at at read time.
type PunishmentStore interface {
	InsertPunishment(ctx context.Context, record models.PunishmentRecord) (models.PunishmentRecord, error)
	InsertWarning(ctx context.Context, record models.WarningRecord) (models.WarningRecord, error)
	// ActivePunishments returns records with is_active=true and
	// (expires_at IS NULL OR expires_at > now), newest first.
	ActivePunishments(ctx context.Context, userID string, now time.Time) ([]models.PunishmentRecord, error)
	PunishmentByID(ctx context.Context, punishmentID string) (models.PunishmentRecord, error)
	SetPunishmentActive(ctx context.Context, punishmentID string, active bool) error
}

// ProfileStore maintains the profile-level banned convenience flag.
type ProfileStore interface {
	SetUserBanned(ctx context.Context, userID string, banned bool) error
	UserBanned(ctx context.Context, userID string) (bool, error)
}

// ActivityLogger appends observability entries. Failures here are logged
// and never gate the pipeline.
type ActivityLogger interface {
	AppendActivity(ctx context.Context, entry models.ActivityLog) error
}

// UserLocker serializes pipeline invocations per user so two near-simultaneous
// violating messages cannot both read a below-threshold history. Lock blocks
// until the lock is held or ctx is done, and returns the release func.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (release func(), err error)
}
