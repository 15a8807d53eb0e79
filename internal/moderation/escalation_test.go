package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finding(severity int) Finding {
	return Finding{
		Type:        models.ViolationTypeProfanity,
		Description: "Contains inappropriate language",
		Severity:    severity,
		Confidence:  0.8,
	}
}

func seedViolations(store *MemStore, userID string, n int, age time.Duration) {
	for i := 0; i < n; i++ {
		store.Violations = append(store.Violations, models.ViolationRecord{
			ID:            "seed",
			UserID:        userID,
			ViolationType: models.ViolationTypeSpam,
			Severity:      1,
			DetectedBy:    models.DetectedBySystem,
			CreatedAt:     testNow.Add(-age),
		})
	}
}

func TestProcessViolationEmptyBatchIsNoOp(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", nil, nil)

	assert.Equal(t, EscalationResult{}, result)
	assert.Empty(t, store.Violations)
	assert.Empty(t, store.Warnings)
	assert.Empty(t, store.Punishments)
}

func TestProcessViolationRecordsFindings(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)
	messageID := "msg-1"

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(2)}, &messageID)

	assert.Equal(t, 2, result.TotalSeverity)
	assert.Equal(t, 1, result.RecentViolations)
	require.Len(t, store.Violations, 1)
	rec := store.Violations[0]
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, models.DetectedBySystem, rec.DetectedBy)
	require.NotNil(t, rec.MessageID)
	assert.Equal(t, "msg-1", *rec.MessageID)

	// One activity entry summarizing the worst finding.
	require.Len(t, store.Activity, 1)
	assert.Equal(t, models.LogActionViolationDetected, store.Activity[0].Action)
}

func TestProcessViolationBelowAllThresholds(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(2)}, nil)

	assert.Empty(t, result.PunishmentType)
	assert.Empty(t, store.Warnings)
	assert.Empty(t, store.Punishments)
}

func TestProcessViolationWarningAtSeverityThreshold(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(3)}, nil)

	assert.Equal(t, models.PunishmentTypeWarning, result.PunishmentType)
	assert.Zero(t, result.DurationMinutes)
	require.Len(t, store.Warnings, 1)
	assert.Equal(t, "u1", store.Warnings[0].UserID)
	assert.Contains(t, store.Warnings[0].Message, "community guidelines")
	assert.Empty(t, store.Punishments)
}

func TestProcessViolationMuteAtBatchSeverity(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(4), finding(2)}, nil)

	assert.Equal(t, models.PunishmentTypeMute, result.PunishmentType)
	assert.Equal(t, 60, result.DurationMinutes)
	require.Len(t, store.Punishments, 1)

	p := store.Punishments[0]
	assert.Equal(t, models.PunishmentTypeMute, p.PunishmentType)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.ExpiresAt)
	assert.Equal(t, testNow.Add(60*time.Minute), *p.ExpiresAt)
	require.NotNil(t, p.ViolationID)
	assert.Equal(t, store.Violations[0].ID, *p.ViolationID)
	assert.False(t, store.Banned["u1"])
}

func TestProcessViolationMuteAtWindowCount(t *testing.T) {
	store := NewMemStore()
	seedViolations(store, "u1", 2, time.Hour)
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(1)}, nil)

	assert.Equal(t, models.PunishmentTypeMute, result.PunishmentType)
	assert.Equal(t, 3, result.RecentViolations)
}

func TestProcessViolationBanAtWindowCount(t *testing.T) {
	store := NewMemStore()
	seedViolations(store, "u1", 4, time.Hour)
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(1)}, nil)

	assert.Equal(t, models.PunishmentTypeBan, result.PunishmentType)
	assert.Equal(t, 1440, result.DurationMinutes)
	assert.Equal(t, 5, result.RecentViolations)
	assert.True(t, store.Banned["u1"])
}

func TestProcessViolationBanAtBatchSeverity(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(4), finding(4), finding(2)}, nil)

	assert.Equal(t, models.PunishmentTypeBan, result.PunishmentType)
	assert.Equal(t, 10, result.TotalSeverity)
	assert.True(t, store.Banned["u1"])
}

func TestProcessViolationOldViolationsOutsideWindow(t *testing.T) {
	store := NewMemStore()
	seedViolations(store, "u1", 4, 25*time.Hour)
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(1)}, nil)

	assert.Empty(t, result.PunishmentType)
	assert.Equal(t, 1, result.RecentViolations)
}

func TestProcessViolationSeveritySumsBatchOnly(t *testing.T) {
	store := NewMemStore()
	// Prior window records carry severity, but only the current batch's
	// severities feed the severity thresholds.
	seedViolations(store, "u1", 1, time.Hour)
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(2)}, nil)

	assert.Equal(t, 2, result.TotalSeverity)
	assert.Equal(t, 2, result.RecentViolations)
	assert.Empty(t, result.PunishmentType)
}

func TestProcessViolationInsertFailureAbortsEscalation(t *testing.T) {
	store := NewMemStore()
	store.InsertViolationsErr = errors.New("disk full")
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(4), finding(4), finding(2)}, nil)

	assert.Equal(t, EscalationResult{}, result)
	assert.Empty(t, store.Punishments)
	assert.False(t, store.Banned["u1"])
}

func TestProcessViolationPunishmentFailureKeepsDecision(t *testing.T) {
	store := NewMemStore()
	store.InsertPunishmentErr = errors.New("disk full")
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(4), finding(2)}, nil)

	// The decision is still reported even though applying it failed.
	assert.Equal(t, models.PunishmentTypeMute, result.PunishmentType)
	assert.Empty(t, store.Punishments)
}

func TestProcessViolationWarningFailureKeepsDecision(t *testing.T) {
	store := NewMemStore()
	store.InsertWarningErr = errors.New("disk full")
	e := newTestEngine(store)

	result := e.ProcessViolation(context.Background(), "u1", []Finding{finding(3)}, nil)

	assert.Equal(t, models.PunishmentTypeWarning, result.PunishmentType)
	assert.Empty(t, store.Warnings)
}

func TestProcessViolationSerializesPerUser(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			e.ProcessViolation(context.Background(), "u1", []Finding{finding(1)}, nil)
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	assert.Len(t, store.Violations, 4)
}
