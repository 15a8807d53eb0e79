package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/google/uuid"
)

// MemStore is an in-memory implementation of every store interface the
// engine needs. It backs the unit tests and local development without
// external services. The error fields inject failures for the
// degraded-path tests.
type MemStore struct {
	mu sync.Mutex

	Messages    []models.Message
	Violations  []models.ViolationRecord
	Punishments []models.PunishmentRecord
	Warnings    []models.WarningRecord
	Banned      map[string]bool
	Activity    []models.ActivityLog

	InsertViolationsErr error
	InsertPunishmentErr error
	InsertWarningErr    error
	SetUserBannedErr    error
	RecentMessagesErr   error
	SetPunishmentActErr error
}

func NewMemStore() *MemStore {
	return &MemStore{Banned: make(map[string]bool)}
}

func (s *MemStore) AddMessage(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
}

func (s *MemStore) RecentMessages(_ context.Context, userID, roomID string, since time.Time, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RecentMessagesErr != nil {
		return nil, s.RecentMessagesErr
	}

	var out []models.Message
	for i := len(s.Messages) - 1; i >= 0 && len(out) < limit; i-- {
		msg := s.Messages[i]
		if msg.UserID == userID && msg.RoomID == roomID && !msg.CreatedAt.Before(since) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (s *MemStore) InsertViolations(_ context.Context, records []models.ViolationRecord) ([]models.ViolationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertViolationsErr != nil {
		return nil, s.InsertViolationsErr
	}

	inserted := make([]models.ViolationRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		s.Violations = append(s.Violations, rec)
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

func (s *MemStore) ViolationsSince(_ context.Context, userID string, since time.Time) ([]models.ViolationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ViolationRecord
	for i := len(s.Violations) - 1; i >= 0; i-- {
		rec := s.Violations[i]
		if rec.UserID == userID && !rec.CreatedAt.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemStore) InsertPunishment(_ context.Context, record models.PunishmentRecord) (models.PunishmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertPunishmentErr != nil {
		return models.PunishmentRecord{}, s.InsertPunishmentErr
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.Punishments = append(s.Punishments, record)
	return record, nil
}

func (s *MemStore) InsertWarning(_ context.Context, record models.WarningRecord) (models.WarningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertWarningErr != nil {
		return models.WarningRecord{}, s.InsertWarningErr
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.Warnings = append(s.Warnings, record)
	return record, nil
}

func (s *MemStore) ActivePunishments(_ context.Context, userID string, now time.Time) ([]models.PunishmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.PunishmentRecord
	for i := len(s.Punishments) - 1; i >= 0; i-- {
		rec := s.Punishments[i]
		if rec.UserID == userID && rec.EnforcedAt(now) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemStore) PunishmentByID(_ context.Context, punishmentID string) (models.PunishmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.Punishments {
		if rec.ID == punishmentID {
			return rec, nil
		}
	}
	return models.PunishmentRecord{}, errors.New("punishment not found")
}

func (s *MemStore) SetPunishmentActive(_ context.Context, punishmentID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetPunishmentActErr != nil {
		return s.SetPunishmentActErr
	}

	for i := range s.Punishments {
		if s.Punishments[i].ID == punishmentID {
			s.Punishments[i].IsActive = active
			return nil
		}
	}
	return errors.New("punishment not found")
}

func (s *MemStore) SetUserBanned(_ context.Context, userID string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetUserBannedErr != nil {
		return s.SetUserBannedErr
	}
	s.Banned[userID] = banned
	return nil
}

func (s *MemStore) UserBanned(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Banned[userID], nil
}

func (s *MemStore) AppendActivity(_ context.Context, entry models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.Activity = append(s.Activity, entry)
	return nil
}
